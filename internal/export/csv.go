package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/neuroviz/internal/dataset"
)

// WriteCSV dumps the dataset as one column of time plus one column per
// section. Short traces repeat their last sample so every row is complete.
func WriteCSV(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"time_ms"}
	for i := range ds.Sections {
		name := ds.Sections[i].Name
		if name == "" {
			name = fmt.Sprintf("section_%d", ds.Sections[i].ID)
		}
		header = append(header, name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for f := 0; f < ds.Meta.FrameCount; f++ {
		row := make([]string, 0, len(ds.Sections)+1)
		row = append(row, strconv.FormatFloat(float64(f)*ds.Meta.TimeStepMs, 'f', 3, 64))
		for i := range ds.Sections {
			row = append(row, strconv.FormatFloat(ds.Sections[i].Frame(f), 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Error()
}
