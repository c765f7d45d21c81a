package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/format"
	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/service"
)

// AutosaveHeader marks a background save of the edit screen.
const AutosaveHeader = "X-Orbis-Autosave"

var editableStatuses = map[string]bool{
	domain.StatusPublish: true,
	domain.StatusDraft:   true,
	domain.StatusPending: true,
}

func (h *Handler) columns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "columns": h.ctrl.Columns()})
}

func (h *Handler) metaBoxes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "meta_boxes": h.ctrl.MetaBoxes()})
}

func (h *Handler) get(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	view, err := h.view(c.Request.Context(), post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": view})
}

func (h *Handler) renderColumns(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}

	out := make(map[string]string)
	for _, col := range h.ctrl.Columns() {
		switch col.Key {
		case service.ColumnPrincipal, service.ColumnPrice, service.ColumnTime:
		default:
			continue
		}
		v, err := h.ctrl.RenderColumn(c.Request.Context(), col.Key, post.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		out[col.Key] = v
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "columns": out})
}

func (h *Handler) issueNonces(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(c)

	out := make(map[string]string, 2)
	for field, action := range map[string]string{
		domain.DetailsNonceField:  domain.DetailsNonceAction,
		domain.InvoicesNonceField: domain.InvoicesNonceAction,
	} {
		token, err := h.nonces.Create(action, user.ID, post.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		out[field] = token
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "nonces": out})
}

func (h *Handler) save(c *gin.Context) {
	post, ok := h.loadPost(c)
	if !ok {
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid form"})
		return
	}
	values := c.Request.PostForm
	user, _ := auth.CurrentUser(c)
	log := logging.NewLogger(c.Request.Context()).With("post_id", post.ID)

	title, hasTitle := values["post_title"]
	status := strings.TrimSpace(values.Get("post_status"))
	if hasTitle || status != "" {
		if status == "" {
			status = post.Status
		} else if !editableStatuses[status] {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid post_status"})
			return
		}
		newTitle := post.Title
		if hasTitle && len(title) > 0 {
			newTitle = strings.TrimSpace(title[0])
		}

		updated, err := h.posts.UpdateContent(c.Request.Context(), post.ID, newTitle, status)
		if err != nil {
			log.LogError("save_post", err)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		post = updated
	}

	h.hooks.Run(c.Request.Context(), &hooks.SaveContext{
		Post:     post,
		Form:     values,
		User:     user,
		Locale:   h.locale,
		Autosave: c.GetHeader(AutosaveHeader) == "1",
	})

	view, err := h.view(c.Request.Context(), post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": view})
}

// loadPost resolves :post_id to a project post, writing the error response
// itself when it cannot.
func (h *Handler) loadPost(c *gin.Context) (*domain.Post, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("post_id")), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid post id"})
		return nil, false
	}

	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "post not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return nil, false
	}
	if post.Type != domain.PostType {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": domain.ErrNotAProject.Error()})
		return nil, false
	}
	return post, true
}

func (h *Handler) view(ctx context.Context, post *domain.Post) (*projectView, error) {
	p, err := h.ctrl.Loader().Load(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	invoices, err := p.Invoices(ctx)
	if err != nil {
		return nil, err
	}

	v := &projectView{
		PostID:        post.ID,
		ProjectID:     p.RowID(),
		Title:         post.Title,
		Status:        post.Status,
		Price:         p.Price(),
		PriceLabel:    format.Price(p.Price(), h.ctrl.Numbers()),
		Seconds:       p.AvailableTime().Seconds,
		TimeLabel:     p.AvailableTime().Format(),
		InvoiceNumber: p.InvoiceNumber(),
		IsFinished:    p.IsFinished(),
		IsInvoicable:  p.IsInvoicable(),
		IsInvoiced:    p.IsInvoiced(),
		Invoices:      make([]invoiceView, 0, len(invoices)),
	}
	if p.HasPrincipal() {
		v.Principal = &principalView{
			PostID:    p.PrincipalPostID(),
			Name:      p.PrincipalName(),
			Permalink: h.ctrl.Permalink(p.PrincipalPostID()),
		}
	}
	for _, inv := range invoices {
		final := inv.InvoiceNumber != "" && p.IsFinalInvoice(inv.InvoiceNumber)
		v.Invoices = append(v.Invoices, invoiceView{Invoice: inv, IsFinal: final})
	}
	return v, nil
}
