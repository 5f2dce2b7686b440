package service

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/ideabox/internal/export/domain"
	ideadomain "github.com/smallbiznis/ideabox/internal/idea/domain"
)

// column widths on maroto's 12-unit grid, matching domain.Header.
var pdfColumns = []int{3, 3, 2, 2, 2}

// renderPDF lays out the same columns as the CSV export as a printable table.
func renderPDF(ideas []*ideadomain.Idea, dateLayout string, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(8, "Idea export", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		col.New(4).Add(
			text.New("Generated: "+generatedAt.Format("2006-01-02 15:04 MST"), props.Text{Size: 8, Align: align.Right}),
			text.New(fmt.Sprintf("Rows: %d", len(ideas)), props.Text{Size: 8, Align: align.Right, Top: 4}),
		),
	)

	addTableRow(m, 10, domain.Header, props.Text{Style: fontstyle.Bold, Size: 9})

	for _, item := range ideas {
		submitter := item.OwnerEmail
		if submitter == "" {
			submitter = item.OwnerID
		}
		addTableRow(m, 8, []string{
			submitter,
			item.Title,
			item.Category,
			item.CreatedAt.UTC().Format(dateLayout),
			string(item.Status),
		}, props.Text{Size: 8})
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

func addTableRow(m core.Maroto, height float64, values []string, style props.Text) {
	cols := make([]core.Col, 0, len(values))
	for i, value := range values {
		cols = append(cols, text.NewCol(pdfColumns[i], value, style))
	}
	m.AddRow(height, cols...)
}
