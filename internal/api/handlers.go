package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diwan-dev/diwan/internal/metrics"
	"github.com/diwan-dev/diwan/internal/model"
	"github.com/diwan-dev/diwan/internal/report"
	"github.com/diwan-dev/diwan/internal/store/sqlite"
)

type directorateDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type officeDTO struct {
	ID            int64  `json:"id"`
	DirectorateID int64  `json:"directorateId"`
	Name          string `json:"name"`
}

type batchDTO struct {
	ID          string `json:"id"`
	Number      string `json:"number"`
	FileName    string `json:"fileName"`
	Directorate string `json:"directorate"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Imported    int    `json:"imported"`
	Skipped     int    `json:"skipped"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
}

type columnsDTO struct {
	Debit  string `json:"debit"`
	Credit string `json:"credit"`
}

type balanceRowDTO struct {
	Key      string     `json:"key"`
	Label    string     `json:"label"`
	Level    string     `json:"level,omitempty"`
	Opening  columnsDTO `json:"opening"`
	Movement columnsDTO `json:"movement"`
	Total    columnsDTO `json:"total"`
	Closing  columnsDTO `json:"closing"`
}

type balancesResponse struct {
	Year    int             `json:"year"`
	Months  []int           `json:"months"`
	GroupBy string          `json:"groupBy"`
	Rows    []balanceRowDTO `json:"rows"`
	Skipped int             `json:"skipped"`
}

func (s *Server) handleDirectorates(w http.ResponseWriter, r *http.Request) {
	dirs, err := s.db.ListDirectorates(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing directorates")
		writeError(w, http.StatusInternalServerError, "listing directorates")
		return
	}
	out := make([]directorateDTO, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, directorateDTO{ID: d.ID, Name: d.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleOffices(w http.ResponseWriter, r *http.Request) {
	directorateID, err := queryInt64(r, "directorateId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid directorateId")
		return
	}
	offices, err := s.db.ListOffices(r.Context(), directorateID)
	if err != nil {
		s.log.Error().Err(err).Msg("listing offices")
		writeError(w, http.StatusInternalServerError, "listing offices")
		return
	}
	out := make([]officeDTO, 0, len(offices))
	for _, o := range offices {
		out = append(out, officeDTO{ID: o.ID, DirectorateID: o.DirectorateID, Name: o.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := s.db.ListBatches(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("listing batches")
		writeError(w, http.StatusInternalServerError, "listing batches")
		return
	}
	out := make([]batchDTO, 0, len(batches))
	for _, b := range batches {
		out = append(out, batchDTO{
			ID:          b.ID,
			Number:      b.Number,
			FileName:    b.FileName,
			Directorate: b.Directorate,
			Month:       b.Month,
			Year:        b.Year,
			Imported:    b.Imported,
			Skipped:     b.Skipped,
			Status:      string(b.Status),
			CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleBalances serves GET /api/reports/balances. Query parameters:
//
//	year      report year (required)
//	period    monthly | quarterly | annual (default monthly)
//	month     1..12, for monthly periods (default 1)
//	quarter   1..4, for quarterly periods (default 1)
//	groupBy   office | hierarchy (default office)
//	directorateId, officeId, account, class  optional filters
func (s *Server) handleBalances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil || year < 1 {
		writeError(w, http.StatusBadRequest, "invalid or missing year")
		return
	}

	kind := q.Get("period")
	if kind == "" {
		kind = "monthly"
	}
	sub := 1
	switch kind {
	case "monthly":
		if v := q.Get("month"); v != "" {
			if sub, err = strconv.Atoi(v); err != nil {
				writeError(w, http.StatusBadRequest, "invalid month")
				return
			}
		}
	case "quarterly":
		if v := q.Get("quarter"); v != "" {
			if sub, err = strconv.Atoi(v); err != nil {
				writeError(w, http.StatusBadRequest, "invalid quarter")
				return
			}
		}
	}
	period, err := report.ParsePeriod(kind, year, sub)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := report.Options{Account: q.Get("account")}
	groupBy := q.Get("groupBy")
	if groupBy == "" {
		groupBy = "office"
	}
	switch groupBy {
	case "office":
		opts.GroupBy = report.GroupByOffice
	case "hierarchy":
		opts.GroupBy = report.GroupByHierarchy
	default:
		writeError(w, http.StatusBadRequest, "groupBy must be office or hierarchy")
		return
	}

	switch q.Get("class") {
	case "":
	case "revenue":
		opts.Class = model.ClassRevenue
	case "use":
		opts.Class = model.ClassUse
	default:
		writeError(w, http.StatusBadRequest, "class must be revenue or use")
		return
	}

	if opts.DirectorateID, err = queryInt64(r, "directorateId"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid directorateId")
		return
	}
	if opts.OfficeID, err = queryInt64(r, "officeId"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid officeId")
		return
	}

	ctx := r.Context()
	if opts.GroupBy == report.GroupByHierarchy {
		opts.Labels, err = s.db.NodeLabels(ctx)
	} else {
		opts.Labels, err = s.db.OfficeLabels(ctx)
	}
	if err != nil {
		s.log.Error().Err(err).Msg("loading report labels")
		writeError(w, http.StatusInternalServerError, "loading report labels")
		return
	}

	entries, err := s.db.ListEntries(ctx, sqlite.EntryFilter{
		Year:          year,
		OfficeID:      opts.OfficeID,
		DirectorateID: opts.DirectorateID,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("reading ledger entries")
		writeError(w, http.StatusInternalServerError, "reading ledger entries")
		return
	}

	res, err := report.ComputeBalances(entries, period, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.ReportRequests.WithLabelValues(groupBy).Inc()

	rows := make([]balanceRowDTO, 0, len(res.Rows))
	for _, row := range res.Rows {
		rows = append(rows, balanceRowDTO{
			Key:      row.Key,
			Label:    row.Label,
			Level:    string(row.Level),
			Opening:  toColumnsDTO(row.Opening),
			Movement: toColumnsDTO(row.Movement),
			Total:    toColumnsDTO(row.Total),
			Closing:  toColumnsDTO(row.Closing),
		})
	}
	writeJSON(w, http.StatusOK, balancesResponse{
		Year:    year,
		Months:  period.Months,
		GroupBy: groupBy,
		Rows:    rows,
		Skipped: res.Skipped,
	})
}

func toColumnsDTO(c report.Columns) columnsDTO {
	return columnsDTO{Debit: c.Debit.StringFixed(2), Credit: c.Credit.StringFixed(2)}
}

// queryInt64 parses an optional int64 query parameter; absent means 0.
func queryInt64(r *http.Request, name string) (int64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
