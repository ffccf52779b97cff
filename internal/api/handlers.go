package api

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"pricing_services/internal/dispatch"
	"pricing_services/internal/export"
	"pricing_services/internal/reconcile"
	"pricing_services/internal/sheets"
	"pricing_services/internal/view"
)

const exportTitle = "Pricing & Services"

type updateItem struct {
	reconcile.Selector
	Record view.ServiceRecord `json:"record"`
}

type updateRequest struct {
	Updates []updateItem `json:"updates"`
}

type deleteRequest struct {
	Selectors []reconcile.Selector `json:"selectors"`
}

// mutationResult is the per-item outcome of a batch mutation. Mutations are
// write-through-blind, so no refreshed data ever rides along.
type mutationResult struct {
	Row     int    `json:"row,omitempty"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// createSession accepts the service-account credential blob, authenticates,
// and takes the session's initial view snapshot. Credential parse failures
// stop everything before any data load.
func (s *Server) createSession(c *fiber.Ctx) error {
	blob, err := s.credentialBlob(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := sheets.ValidateCredentials(blob); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	gw, err := s.newGateway(c.UserContext(), blob)
	if err != nil {
		log.Error().Err(err).Msg("Failed to open spreadsheet backend")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	entries, err := s.loadEntries(c.UserContext(), gw)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load table view")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	sess := s.store.add(gw, dispatch.New(gw, s.policy), entries)
	log.Info().Str("session", sess.id).Int("rows", len(entries)).Msg("Session created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id": sess.id,
		"summary":    view.Summarize(entries),
		"categories": view.CategoryOptions(entries),
	})
}

// credentialBlob reads the uploaded multipart credential, falling back to
// the pre-seeded credentials file when one is configured.
func (s *Server) credentialBlob(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("credentials")
	if err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	if s.cfg.CredentialsFile != "" {
		return os.ReadFile(s.cfg.CredentialsFile)
	}
	return nil, err
}

// listServices returns the filtered view. Headline metrics and category
// options are computed over the full snapshot, the filter only narrows the
// row list.
func (s *Server) listServices(c *fiber.Ctx) error {
	sess := currentSession(c)
	entries := sess.getEntries()
	filtered := view.Filter(entries, c.Query("category"), c.Query("q"), s.scope)

	return c.JSON(fiber.Map{
		"services":   filtered,
		"summary":    view.Summarize(entries),
		"categories": view.CategoryOptions(entries),
	})
}

func (s *Server) addService(c *fiber.Ctx) error {
	sess := currentSession(c)

	var rec view.ServiceRecord
	if err := c.BodyParser(&rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.validate.Struct(rec); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := sess.dispatcher.Add(c.UserContext(), rec); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "ok"})
}

func (s *Server) updateServices(c *fiber.Ctx) error {
	sess := currentSession(c)

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "updates must not be empty"})
	}
	for _, u := range req.Updates {
		if err := validSelector(u.Selector); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err := s.validate.Struct(u.Record); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	// The snapshot stays fixed across the whole batch: every selector
	// resolves against the view as loaded, not against intermediate writes.
	entries := sess.getEntries()
	results := make([]mutationResult, 0, len(req.Updates))
	for _, u := range req.Updates {
		res, err := sess.dispatcher.Update(c.UserContext(), entries, u.Selector, u.Record)
		results = append(results, toMutationResult(res, err))
	}
	return c.JSON(fiber.Map{"results": results})
}

func (s *Server) deleteServices(c *fiber.Ctx) error {
	sess := currentSession(c)

	var req deleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if len(req.Selectors) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "selectors must not be empty"})
	}
	for _, sel := range req.Selectors {
		if err := validSelector(sel); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	entries := sess.getEntries()
	results := make([]mutationResult, 0, len(req.Selectors))
	for _, sel := range req.Selectors {
		res, err := sess.dispatcher.Delete(c.UserContext(), entries, sel)
		results = append(results, toMutationResult(res, err))
	}
	return c.JSON(fiber.Map{"results": results})
}

// reloadView rebuilds the session's snapshot from the store. This is the only
// way a session ever observes its own writes.
func (s *Server) reloadView(c *fiber.Ctx) error {
	sess := currentSession(c)

	entries, err := s.loadEntries(c.UserContext(), sess.gw)
	if err != nil {
		log.Error().Err(err).Str("session", sess.id).Msg("Failed to reload table view")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	sess.setEntries(entries)

	return c.JSON(fiber.Map{
		"summary":    view.Summarize(entries),
		"categories": view.CategoryOptions(entries),
	})
}

func (s *Server) exportView(c *fiber.Ctx) error {
	sess := currentSession(c)
	filtered := view.Filter(sess.getEntries(), c.Query("category"), c.Query("q"), s.scope)

	var (
		data        []byte
		err         error
		contentType string
		filename    string
	)
	switch c.Params("format") {
	case "csv":
		data, err = export.CSV(s.cfg.VisibleColumns, filtered)
		contentType = "text/csv; charset=utf-8"
		filename = "services.csv"
	case "xlsx":
		data, err = export.XLSX(s.cfg.VisibleColumns, filtered)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "services.xlsx"
	case "pdf":
		data, err = export.PDF(exportTitle, s.cfg.VisibleColumns, filtered)
		contentType = "application/pdf"
		filename = "services.pdf"
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown export format, expected csv, xlsx or pdf"})
	}
	if err != nil {
		log.Error().Err(err).Str("format", c.Params("format")).Msg("Export failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (s *Server) loadEntries(ctx context.Context, gw sheets.Gateway) ([]view.Entry, error) {
	raw, err := gw.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	v, err := view.Build(raw, s.cfg.VisibleColumns)
	if err != nil {
		return nil, err
	}
	return v.Entries(), nil
}

func validSelector(sel reconcile.Selector) error {
	if sel.Row > 0 {
		return nil
	}
	if sel.Category == "" || sel.Item == "" {
		return errors.New("selector needs a row number or both category and item")
	}
	return nil
}

func toMutationResult(res dispatch.Result, err error) mutationResult {
	if err != nil {
		return mutationResult{Error: err.Error()}
	}
	return mutationResult{Row: res.Row, Skipped: res.Skipped}
}
