package service

import (
	"context"
	"net/url"

	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
)

// Definition returns the project detail fields the acting user may change.
// The invoiced flag is only reconciled for project administrators; for others
// the stored value is left alone.
func Definition(sc *hooks.SaveContext) *form.Definition {
	def := form.NewDefinition(
		form.Field{Key: domain.MetaPrice, Filter: form.Float(sc.Locale, true)},
		form.Field{Key: domain.MetaPrincipalID, Filter: form.Int()},
		form.Field{Key: domain.MetaAgreementID, Filter: form.Int()},
		form.Field{Key: domain.MetaIsFinished, Filter: form.Bool()},
		form.Field{Key: domain.MetaIsInvoicable, Filter: form.Bool()},
		form.Field{Key: domain.MetaInvoiceNumber, Filter: form.String()},
	)
	if sc.User.Can(domain.CapProjectAdministration) {
		def.Add(domain.MetaIsInvoiced, form.Bool())
	}
	def.Add(domain.MetaSecondsAvailable, form.Time(sc.Locale))
	return def
}

// SaveProject validates the submitted project details into metadata and
// emits transition events for published projects.
func (c *Controller) SaveProject(ctx context.Context, sc *hooks.SaveContext) {
	if sc.Autosave || sc.Post == nil {
		return
	}
	post := sc.Post
	if !c.nonces.Verify(sc.Form.Get(domain.DetailsNonceField), domain.DetailsNonceAction, sc.User.ID, post.ID) {
		return
	}
	if !sc.User.CanEdit(post.ID) {
		return
	}

	log := logging.NewLogger(ctx).With("post_id", post.ID)

	data := Definition(sc).Validate(sc.Form)

	finishedOld, _, err := c.meta.Get(ctx, post.ID, domain.MetaIsFinished)
	if err != nil {
		log.LogError("save_project", err)
		return
	}
	invoiceNumberOld, _, err := c.meta.Get(ctx, post.ID, domain.MetaInvoiceNumber)
	if err != nil {
		log.LogError("save_project", err)
		return
	}

	if number, final := finalInvoiceNumber(sc.Form, data); final {
		data.Set(domain.MetaInvoiceNumber, number)
	} else {
		data.Set(domain.MetaInvoiceNumber, invoiceNumberOld)
	}

	// keys whose write failed; their stored value is unchanged
	unsaved := make(map[string]bool)
	for _, key := range data.Keys() {
		v := data.Get(key)
		if form.IsEmpty(v) {
			err = c.meta.Delete(ctx, post.ID, key)
		} else {
			err = c.meta.Set(ctx, post.ID, key, form.Encode(v))
		}
		if err != nil {
			unsaved[key] = true
			log.LogErrorf("save_project", "write %s: %v", key, err)
		}
	}

	if !post.IsPublished() {
		return
	}

	isFinishedOld := form.ToBool(finishedOld)
	isFinishedNew := data.Bool(domain.MetaIsFinished)
	if isFinishedOld != isFinishedNew && !unsaved[domain.MetaIsFinished] {
		c.events.Emit(ctx, domain.FinishedStateChanged{PostID: post.ID, IsFinished: isFinishedNew})
	}

	invoiceNumberNew := data.String(domain.MetaInvoiceNumber)
	if invoiceNumberOld != invoiceNumberNew && !unsaved[domain.MetaInvoiceNumber] {
		c.events.Emit(ctx, domain.InvoiceNumberChanged{
			PostID:    post.ID,
			OldNumber: invoiceNumberOld,
			NewNumber: invoiceNumberNew,
		})
	}
}

// finalInvoiceNumber returns the invoice number the submission marks as
// final. The new invoice row is final when its checkbox is ticked; an
// existing invoice is final when the selector holds its id and its edited
// number was submitted. The "0" selector marks nothing.
func finalInvoiceNumber(values url.Values, data *form.Result) (any, bool) {
	if values.Get(domain.FieldIsFinalInvoice) == "1" {
		return data.Get(domain.MetaInvoiceNumber), true
	}

	selected := values.Get(domain.FieldFinalInvoiceEdit)
	if selected == "" || selected == domain.NoFinalInvoice {
		return nil, false
	}
	if v, ok := form.Int().Apply(selected); !ok || v.(int64) <= 0 {
		return nil, false
	}
	edited, ok := values[domain.FieldInvoiceNumberEdit+selected]
	if !ok || len(edited) == 0 {
		return nil, false
	}
	return form.StripTags(edited[0]), true
}
