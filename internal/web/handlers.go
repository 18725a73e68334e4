package web

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cleared-dev/sheetbill/internal/batch"
	"github.com/cleared-dev/sheetbill/internal/metrics"
	"github.com/cleared-dev/sheetbill/internal/naming"
)

const (
	msgNoFile       = "No file selected"
	msgTooLarge     = "File too large"
	msgGenerateFail = "Error generating invoices. The error has been logged for investigation."
	msgRecordFail   = "could not be generated"
	msgNotFound     = "Invoice not found"
)

var offered = []string{gin.MIMEHTML, gin.MIMEJSON}

type indexPage struct {
	Error      string
	Extensions []string
	MaxMB      int64
}

type invoiceResult struct {
	Invoice  string   `json:"invoice"`
	File     string   `json:"file,omitempty"`
	Error    string   `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type uploadResult struct {
	Source    string          `json:"source"`
	Generated int             `json:"generated"`
	Failed    int             `json:"failed"`
	Invoices  []invoiceResult `json:"invoices"`
	Warnings  []string        `json:"warnings,omitempty"`
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.page(""))
}

func (s *Server) page(msg string) indexPage {
	return indexPage{Error: msg, Extensions: s.tables.Extensions(), MaxMB: s.cfg.Server.MaxUploadMB}
}

// fail answers with msg as the form error or as JSON.
func (s *Server) fail(c *gin.Context, code int, msg string) {
	c.Negotiate(code, gin.Negotiate{
		Offered:  offered,
		HTMLName: "index.html",
		HTMLData: s.page(msg),
		JSONData: gin.H{"error": msg},
	})
}

func (s *Server) upload(c *gin.Context) {
	limit := s.cfg.Server.MaxUploadBytes()
	if c.Request.ContentLength > limit {
		s.metrics.ObserveUpload(metrics.UploadRejected)
		s.fail(c, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		s.metrics.ObserveUpload(metrics.UploadRejected)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(c, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		s.fail(c, http.StatusBadRequest, msgNoFile)
		return
	}
	name := filepath.Base(fh.Filename)
	if fh.Filename == "" || name == "." || name == string(filepath.Separator) {
		s.metrics.ObserveUpload(metrics.UploadRejected)
		s.fail(c, http.StatusBadRequest, msgNoFile)
		return
	}
	if !s.tables.Supports(name) {
		s.metrics.ObserveUpload(metrics.UploadRejected)
		s.fail(c, http.StatusBadRequest, invalidType(s.tables.Extensions()))
		return
	}

	saved := filepath.Join(s.cfg.Server.UploadFolder, uuid.NewString()+"_"+naming.SafeComponent(name))
	if err := c.SaveUploadedFile(fh, saved); err != nil {
		s.metrics.ObserveUpload(metrics.UploadFailed)
		s.log.Error("saving upload", "file", name, "err", err)
		s.fail(c, http.StatusInternalServerError, msgGenerateFail)
		return
	}

	report, err := s.runner.RunFile(c.Request.Context(), saved)
	if err != nil && !errors.Is(err, batch.ErrBatchLog) {
		s.metrics.ObserveUpload(metrics.UploadFailed)
		s.log.Error("generating invoices", "file", name, "saved", saved, "err", err)
		s.fail(c, http.StatusUnprocessableEntity, msgGenerateFail)
		return
	}
	if err != nil {
		s.log.Warn("batch log", "file", name, "err", err)
	}
	s.metrics.ObserveUpload(metrics.UploadAccepted)

	res := s.result(name, report)
	c.Negotiate(http.StatusOK, gin.Negotiate{
		Offered:  offered,
		HTMLName: "result.html",
		Data:     res,
	})
}

// result converts a report for display. Record errors are logged in full
// and shown generically.
func (s *Server) result(source string, report batch.Report) uploadResult {
	res := uploadResult{
		Source:    source,
		Generated: report.Succeeded(),
		Failed:    report.Failed(),
		Invoices:  make([]invoiceResult, 0, len(report.Outcomes)),
	}
	for _, o := range report.Outcomes {
		ir := invoiceResult{Invoice: o.Invoice, Warnings: o.Warnings}
		if o.OK() {
			ir.File = filepath.Base(o.Path)
		} else {
			ir.Error = msgRecordFail
			s.log.Error("rendering invoice", "file", source, "invoice", o.Invoice, "row", o.Row, "err", o.Err)
		}
		res.Invoices = append(res.Invoices, ir)
	}
	for _, w := range report.Warnings {
		res.Warnings = append(res.Warnings, w.String())
	}
	return res
}

func (s *Server) download(c *gin.Context) {
	invoice := c.Param("invoice")
	if n, ok := naming.InvoiceNumber(invoice); ok {
		invoice = n
	}
	path := naming.Path(s.cfg.OutputFolder, invoice)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		s.fail(c, http.StatusNotFound, msgNotFound)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func invalidType(exts []string) string {
	return "Invalid file type. Please upload a spreadsheet (." + strings.Join(exts, ", .") + ")"
}
