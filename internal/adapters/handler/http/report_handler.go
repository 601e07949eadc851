package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-report/internal/adapters/render"
	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const dateLayout = "2006-01-02"

type ReportBuilder interface {
	Build(ctx context.Context, input domain.ReportInput) (*domain.Report, error)
}

type ReportHandler struct {
	svc           ReportBuilder
	defaultSource string
	pdf           *render.PDFWriter
	log           logrus.FieldLogger
	now           func() time.Time
}

func NewReportHandler(svc ReportBuilder, defaultSource string, log logrus.FieldLogger) *ReportHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReportHandler{
		svc:           svc,
		defaultSource: defaultSource,
		pdf:           render.NewPDFWriter(),
		log:           log,
		now:           time.Now,
	}
}

func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	report := r.Group("/report")
	{
		report.GET("", h.GetReport)
		report.GET("/frequency", h.GetTable(render.TableFrequency))
		report.GET("/groups", h.GetTable(render.TableGroups))
		report.GET("/score", h.GetTable(render.TableScore))
		report.GET("/heatmap.png", h.GetHeatmap)
		report.GET("/pdf", h.GetPDF)
	}
}

func (h *ReportHandler) parseInput(c *gin.Context) (domain.ReportInput, error) {
	input := domain.ReportInput{
		SourceID: c.DefaultQuery("source", h.defaultSource),
		Snapshot: h.now(),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return input, errors.New("invalid date format, expected YYYY-MM-DD")
		}
		input.Snapshot = date
	}

	variant, err := domain.ParseVariant(c.Query("variant"))
	if err != nil {
		return input, err
	}
	input.Variant = variant

	if strictStr := c.Query("strict"); strictStr != "" {
		strict, err := strconv.ParseBool(strictStr)
		if err != nil {
			return input, errors.New("invalid strict flag, expected true or false")
		}
		input.Strict = strict
	}

	if refreshStr := c.Query("refresh"); refreshStr != "" {
		refresh, err := strconv.ParseBool(refreshStr)
		if err != nil {
			return input, errors.New("invalid refresh flag, expected true or false")
		}
		input.Refresh = refresh
	}

	return input, nil
}

func (h *ReportHandler) build(c *gin.Context) (*domain.Report, bool) {
	input, err := h.parseInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	report, err := h.svc.Build(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return report, true
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, render.Rounded(report))
}

func (h *ReportHandler) GetTable(table render.Table) gin.HandlerFunc {
	return func(c *gin.Context) {
		if table == render.TableScore {
			variant, err := domain.ParseVariant(c.Query("variant"))
			if err == nil && !variant.HasScore() {
				c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrScoreUnavailable.Error()})
				return
			}
		}

		report, ok := h.build(c)
		if !ok {
			return
		}

		if c.Query("format") == string(render.FormatCSV) {
			var buf bytes.Buffer
			if err := render.WriteCSV(&buf, report, table); err != nil {
				h.respondError(c, err)
				return
			}
			c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
			return
		}

		value, err := render.TableValue(report, table)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, value)
	}
}

func (h *ReportHandler) GetHeatmap(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}

	cellPx := render.DefaultCellPx
	if px, err := strconv.Atoi(c.Query("cell")); err == nil && px > 0 && px <= 64 {
		cellPx = px
	}

	var buf bytes.Buffer
	if err := render.WriteHeatmapPNG(&buf, report.Groups, cellPx); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *ReportHandler) GetPDF(c *gin.Context) {
	report, ok := h.build(c)
	if !ok {
		return
	}

	doc, err := h.pdf.Document(report)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("habitos-%s.pdf", report.Snapshot.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ReportHandler) respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.FullPath()).Error("report request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// StatusFor maps report errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrFormatMismatch),
		errors.Is(err, domain.ErrUnknownToken),
		errors.Is(err, domain.ErrUnknownVariant):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrScoreUnavailable):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyWindow):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
