package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/pgzip"

	"space-mission-pipeline/internal/model"
	"space-mission-pipeline/pkg/utils"
)

// ------------------- Source -------------------

// sourceRow is one data row of the source dataset keyed by canonical column
type sourceRow struct {
	Row    int // 1-based, header excluded
	Values map[string]string
}

func (r sourceRow) missionID() string {
	return r.Values[model.ColMissionID]
}

// sourceReader closes every layer stacked on top of the raw source
type sourceReader struct {
	io.Reader
	closers []io.Closer
}

func (s *sourceReader) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openSource opens a local path or an http(s) URL. Sources ending in .gz
// are decompressed on the fly.
func openSource(ctx context.Context, pathOrURL string) (io.ReadCloser, error) {
	src := &sourceReader{}

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: GET %s: %w", model.ErrSourceUnavailable, pathOrURL, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: GET %s: HTTP %d", model.ErrSourceUnavailable, pathOrURL, resp.StatusCode)
		}
		src.Reader = resp.Body
		src.closers = append(src.closers, resp.Body)
	} else {
		file, err := os.Open(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
		}
		src.Reader = file
		src.closers = append(src.closers, file)
	}

	if strings.HasSuffix(strings.ToLower(pathOrURL), ".gz") {
		gz, err := pgzip.NewReader(src.Reader)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("%w: gzip %s: %w", model.ErrSourceUnavailable, pathOrURL, err)
		}
		src.Reader = gz
		src.closers = append(src.closers, gz)
	}
	return src, nil
}

// newCSVReader configures the reader the way every source is parsed:
// lenient quotes, field count fixed by the header row.
func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader
}

// readHeader maps canonical column names to their position. Human-readable
// dataset headers are accepted through model.HeaderAliases; column order is
// free and unknown columns are ignored.
func readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: source is empty", model.ErrSchemaMismatch)
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: unreadable header: %w", model.ErrSchemaMismatch, err)
		}
		return nil, fmt.Errorf("%w: read header: %w", model.ErrSourceUnavailable, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := utils.CleanHeader(h)
		if alias, ok := model.HeaderAliases[name]; ok {
			name = alias
		}
		name = strings.ToLower(name)
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}

	var missing []string
	for _, col := range model.SourceColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", model.ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return columns, nil
}

// ------------------- Row streaming -------------------

// streamRows reads data rows and sends them downstream. Rows the CSV parser
// cannot split correctly are rejected, not fatal; any other read failure ends
// the load.
func streamRows(
	ctx context.Context,
	reader *csv.Reader,
	columns map[string]int,
	out chan<- sourceRow,
	rejects chan<- model.RowValidationError,
	onRead func(),
) error {
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		row++
		onRead()

		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return fmt.Errorf("%w: read row %d: %w", model.ErrSourceUnavailable, row, err)
			}
			rejection := model.RowValidationError{Row: row, Reason: model.ReasonMalformedRow, Value: perr.Err.Error()}
			if i := columns[model.ColMissionID]; i < len(record) {
				rejection.MissionID = strings.TrimSpace(record[i])
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case rejects <- rejection:
			}
			continue
		}

		values := make(map[string]string, len(columns))
		for col, i := range columns {
			values[col] = strings.TrimSpace(record[i])
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- sourceRow{Row: row, Values: values}:
		}
	}
}
