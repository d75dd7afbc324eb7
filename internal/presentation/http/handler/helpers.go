package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-api/internal/presentation/http/middleware"
	"github.com/sangkips/salon-api/pkg/pagination"
)

const (
	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// IsSuperAdmin checks if the user has the super-admin role
func IsSuperAdmin(c *gin.Context) bool {
	p := middleware.GetPrincipal(c)
	return p != nil && p.IsSuperAdmin()
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	return &pagination.PaginationParams{Page: page, PerPage: perPage}
}

// dateRange turns day filters into an inclusive range covering the whole
// "to" day.
func dateRange(from, to time.Time) repository.DateRange {
	r := repository.DateRange{From: from}
	if !to.IsZero() {
		r.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	return r
}

// exportFile streams a generated file. Errors raised before anything was
// written are sent as a normal error response.
func exportFile(c *gin.Context, contentType, filename string, write func(ctx context.Context, w io.Writer) error) {
	w := &lazyWriter{c: c, contentType: contentType, filename: filename}
	if err := write(c.Request.Context(), w); err != nil {
		if !w.started {
			response.Error(c, err)
			return
		}
		_ = c.Error(err)
		return
	}
	if !w.started {
		response.Attachment(c, contentType, filename)
	}
}

// lazyWriter sends the download headers on the first write.
type lazyWriter struct {
	c           *gin.Context
	contentType string
	filename    string
	started     bool
}

func (w *lazyWriter) Write(p []byte) (int, error) {
	if !w.started {
		response.Attachment(w.c, w.contentType, w.filename)
		w.started = true
	}
	return w.c.Writer.Write(p)
}

func exportName(prefix, ext string) string {
	return prefix + "-" + time.Now().UTC().Format("20060102") + "." + ext
}

// parseOptional parses an optional enum filter. An empty value is valid.
func parseOptional[T ~string](raw string, parse func(string) (T, bool)) (T, bool) {
	if raw == "" {
		return "", true
	}
	return parse(raw)
}
