package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fjacquet/bucket-ledger/internal/budget"
	"fjacquet/bucket-ledger/internal/container"
	"fjacquet/bucket-ledger/internal/dateutils"
	"fjacquet/bucket-ledger/internal/ledgererror"
	"fjacquet/bucket-ledger/internal/models"
	"fjacquet/bucket-ledger/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handler serves the budgeting operations of a container over HTTP
type Handler struct {
	c   *container.Container
	now func() time.Time
}

// NewHandler creates a handler over the services of c
func NewHandler(c *container.Container) *Handler {
	return &Handler{c: c, now: time.Now}
}

type configReq struct {
	Type     string `json:"type" binding:"required"`
	Interval int    `json:"interval"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
	Notes    string `json:"notes" binding:"max=255"`
}

type createBucketReq struct {
	GroupID int64  `json:"group_id" binding:"required"`
	Name    string `json:"name" binding:"required,max=64"`
	configReq
}

type movementResp struct {
	BucketID int64  `json:"bucket_id"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

// month reads the month query parameter, defaulting to the current month
func (h *Handler) month(c *gin.Context) (time.Time, error) {
	raw := c.Query("month")
	if raw == "" {
		return dateutils.StartOfMonth(h.now()), nil
	}
	m, err := dateutils.ParseMonth(raw)
	if err != nil {
		return time.Time{}, &ledgererror.ValidationError{Field: "month", Reason: err.Error()}
	}
	return m, nil
}

func bucketID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &ledgererror.ValidationError{Field: "id", Reason: fmt.Sprintf("invalid bucket id %q", c.Param("id"))}
	}
	return id, nil
}

// Overview GET /api/overview?month=yyyy-mm
func (h *Handler) Overview(c *gin.Context) {
	month, err := h.month(c)
	if err != nil {
		Fail(c, err)
		return
	}
	months, err := h.c.GetCalculator().Overview(c.Request.Context(), month)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{
		"month":   dateutils.FormatMonth(month),
		"buckets": report.NewOverviewRows(months),
	})
}

// ExportXLSX GET /api/overview/xlsx?month=yyyy-mm
func (h *Handler) ExportXLSX(c *gin.Context) {
	month, err := h.month(c)
	if err != nil {
		Fail(c, err)
		return
	}
	months, err := h.c.GetCalculator().Overview(c.Request.Context(), month)
	if err != nil {
		Fail(c, err)
		return
	}
	data, err := h.c.GetReportGenerator().GenerateReport(report.NewOverviewRows(months), "xlsx")
	if err != nil {
		Fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"overview_%s.xlsx\"", dateutils.FormatMonth(month)))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Distribute POST /api/distribute?month=yyyy-mm
func (h *Handler) Distribute(c *gin.Context) {
	month, err := h.month(c)
	if err != nil {
		Fail(c, err)
		return
	}
	movements, err := h.c.GetDistributor().Distribute(c.Request.Context(), month)
	if err != nil {
		Fail(c, err)
		return
	}

	total := decimal.Zero
	resp := make([]movementResp, 0, len(movements))
	for _, m := range movements {
		total = total.Add(m.Amount)
		resp = append(resp, movementResp{
			BucketID: m.BucketID,
			Amount:   m.Amount.StringFixed(2),
			Date:     dateutils.ToISODate(m.MovementDate),
		})
	}
	Success(c, gin.H{"movements": resp, "total": total.StringFixed(2)})
}

// Materialize POST /api/recurring/materialize?month=yyyy-mm
func (h *Handler) Materialize(c *gin.Context) {
	month, err := h.month(c)
	if err != nil {
		Fail(c, err)
		return
	}
	result, err := h.c.GetRecurringProcessor().Materialize(c.Request.Context(), month)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"created": len(result.Created), "skipped": result.Skipped})
}

// CreateBucket POST /api/buckets?month=yyyy-mm
func (h *Handler) CreateBucket(c *gin.Context) {
	var req createBucketReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
		return
	}
	month, err := h.month(c)
	if err != nil {
		Fail(c, err)
		return
	}
	cfg, err := budget.ParseConfig(req.Type, req.Interval, req.Amount, req.Date)
	if err != nil {
		Fail(c, err)
		return
	}

	b, err := h.c.GetBucketService().CreateBucket(c.Request.Context(),
		models.Bucket{GroupID: req.GroupID, Name: strings.TrimSpace(req.Name)}, cfg, month)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": CodeOK, "data": b})
}

// ConfigureBucket PUT /api/buckets/:id/config?month=yyyy-mm
func (h *Handler) ConfigureBucket(c *gin.Context) {
	id, err := bucketID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	var req configReq
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
		return
	}
	month, err := h.month(c)
	if err != nil {
		Fail(c, err)
		return
	}
	cfg, err := budget.ParseConfig(req.Type, req.Interval, req.Amount, req.Date)
	if err != nil {
		Fail(c, err)
		return
	}

	v, err := h.c.GetBucketService().Configure(c.Request.Context(), id, cfg, month, req.Notes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{
		"bucket_id":  id,
		"version":    v.Version,
		"valid_from": dateutils.FormatMonth(v.ValidFrom),
		"type":       cfg.Type().String(),
	})
}

// CloseBucket POST /api/buckets/:id/close?month=yyyy-mm
func (h *Handler) CloseBucket(c *gin.Context) {
	id, err := bucketID(c)
	if err != nil {
		Fail(c, err)
		return
	}
	month, err := h.month(c)
	if err != nil {
		Fail(c, err)
		return
	}
	action, err := h.c.GetBucketService().Close(c.Request.Context(), id, month)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, gin.H{"bucket_id": id, "action": action.String()})
}
