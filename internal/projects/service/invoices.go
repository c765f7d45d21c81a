package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"

	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/repository"
)

const invoiceDateLayout = "2006-01-02"

// newInvoiceForm is the "Add New Invoice" row of the invoices meta box.
type newInvoiceForm struct {
	Date    string `schema:"_orbis_project_invoice_date"`
	Amount  string `schema:"_orbis_project_invoice_amount"`
	Seconds string `schema:"_orbis_project_invoice_seconds_available"`
	Number  string `schema:"_orbis_project_invoice_number"`
}

var invoiceDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// SaveInvoices applies the invoices meta box: edits and deletes listed
// invoices and adds a new one when requested.
func (c *Controller) SaveInvoices(ctx context.Context, sc *hooks.SaveContext) {
	if sc.Autosave || sc.Post == nil {
		return
	}
	post := sc.Post
	if !c.nonces.Verify(sc.Form.Get(domain.InvoicesNonceField), domain.InvoicesNonceAction, sc.User.ID, post.ID) {
		return
	}
	if !sc.User.CanEdit(post.ID) {
		return
	}

	projectID := form.ToInt(sc.Form.Get(domain.FieldProjectID))
	if projectID <= 0 {
		return
	}

	log := logging.NewLogger(ctx).With("post_id", post.ID).With("project_id", projectID)

	var deletes []int64
	for _, id := range parseIDList(sc.Form.Get(domain.FieldInvoiceList)) {
		key := strconv.FormatInt(id, 10)
		if _, pressed := sc.Form[key]; pressed {
			deletes = append(deletes, id)
			continue
		}

		in, ok := editedInvoice(sc.Form, key, sc.Locale)
		if !ok {
			log.LogWarnf("save_project_invoices", "skipping invoice %d: invalid date", id)
			continue
		}
		if err := c.invoices.Update(ctx, projectID, id, in); err != nil {
			log.LogError("save_project_invoices", err)
		}
	}

	if len(deletes) > 0 {
		if _, err := c.invoices.Delete(ctx, projectID, deletes); err != nil {
			log.LogError("save_project_invoices", err)
		}
	}

	if _, add := sc.Form[domain.FieldInvoiceAdd]; !add {
		return
	}

	var nf newInvoiceForm
	if err := invoiceDecoder.Decode(&nf, sc.Form); err != nil {
		log.LogWarnf("save_project_invoices", "decode new invoice: %v", err)
		return
	}
	in, ok := newInvoice(nf, sc.Locale, c.now())
	if !ok {
		return
	}
	if _, err := c.invoices.Create(ctx, projectID, sc.User.ID, in); err != nil {
		log.LogError("save_project_invoices", err)
	}
}

func editedInvoice(values url.Values, id string, locale form.Locale) (repository.InvoiceInput, bool) {
	date, err := time.Parse(invoiceDateLayout, strings.TrimSpace(values.Get(domain.FieldInvoiceDateEdit+id)))
	if err != nil {
		return repository.InvoiceInput{}, false
	}
	return repository.InvoiceInput{
		CreateDate:    date,
		Amount:        floatOrZero(values.Get(domain.FieldInvoiceAmountEdit+id), locale),
		Seconds:       secondsOrZero(values.Get(domain.FieldInvoiceSecondsEdit+id), locale),
		InvoiceNumber: form.StripTags(values.Get(domain.FieldInvoiceNumberEdit + id)),
	}, true
}

// newInvoice converts the add row. A row without amount and number is ignored;
// a missing or invalid date falls back to today.
func newInvoice(nf newInvoiceForm, locale form.Locale, now time.Time) (repository.InvoiceInput, bool) {
	number := form.StripTags(nf.Number)
	amount := floatOrZero(nf.Amount, locale)
	if number == "" && amount == 0 {
		return repository.InvoiceInput{}, false
	}

	date, err := time.Parse(invoiceDateLayout, strings.TrimSpace(nf.Date))
	if err != nil {
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	return repository.InvoiceInput{
		CreateDate:    date,
		Amount:        amount,
		Seconds:       secondsOrZero(nf.Seconds, locale),
		InvoiceNumber: number,
	}, true
}

func floatOrZero(s string, locale form.Locale) float64 {
	v, ok := form.Float(locale, true).Apply(s)
	if !ok {
		return 0
	}
	return v.(float64)
}

func secondsOrZero(s string, locale form.Locale) int64 {
	v, ok := form.Time(locale).Apply(s)
	if !ok {
		return 0
	}
	return v.(int64)
}

// parseIDList reads the comma separated invoice id list, skipping anything
// that is not a positive id.
func parseIDList(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
