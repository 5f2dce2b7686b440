package service

import (
	"bytes"
	"encoding/csv"

	"github.com/smallbiznis/ideabox/internal/export/domain"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
)

func renderCSV(ideas []*ideadomain.Idea, dateLayout string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(domain.Header); err != nil {
		return nil, err
	}
	for _, item := range ideas {
		submitter := item.OwnerEmail
		if submitter == "" {
			submitter = item.OwnerID
		}
		record := []string{
			submitter,
			item.Title,
			item.Category,
			item.CreatedAt.UTC().Format(dateLayout),
			string(item.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
