package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

func TestSaveProject_StoresValidatedDetails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.meta.Set(ctx, 10, domain.MetaIsInvoicable, "1")

	values := detailsForm(
		domain.MetaPrice, "1.234,50",
		domain.MetaPrincipalID, "42",
		domain.MetaAgreementID, "abc",
		domain.MetaIsFinished, "on",
		domain.MetaSecondsAvailable, "1:30",
	)
	f.ctrl.SaveProject(ctx, saveContext(draftPost(10), editor(), values))

	assert.Equal(t, "1234.5", f.meta.value(10, domain.MetaPrice))
	assert.Equal(t, "42", f.meta.value(10, domain.MetaPrincipalID))
	assert.Equal(t, "1", f.meta.value(10, domain.MetaIsFinished))
	assert.Equal(t, "5400", f.meta.value(10, domain.MetaSecondsAvailable))
	assert.False(t, f.meta.has(10, domain.MetaAgreementID), "invalid value must clear the key")
	assert.False(t, f.meta.has(10, domain.MetaIsInvoicable), "unchecked box must clear the key")
	assert.Empty(t, f.events.events, "drafts never emit events")
}

func TestSaveProject_NonFinalEditKeepsInvoiceNumber(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.meta.Set(ctx, 10, domain.MetaInvoiceNumber, "INV-1")

	values := detailsForm(domain.MetaInvoiceNumber, "INV-2")
	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), values))

	assert.Equal(t, "INV-1", f.meta.value(10, domain.MetaInvoiceNumber))
	for _, e := range f.events.events {
		assert.NotEqual(t, domain.EventInvoiceNumberUpdate, e.Name())
	}
}

func TestSaveProject_FinalCheckboxSetsNumberAndEmits(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	values := detailsForm(
		domain.MetaInvoiceNumber, "INV-1",
		domain.FieldIsFinalInvoice, "1",
	)
	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), values))

	assert.Equal(t, "INV-1", f.meta.value(10, domain.MetaInvoiceNumber))
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.InvoiceNumberChanged{PostID: 10, OldNumber: "", NewNumber: "INV-1"}, f.events.events[0])
}

func TestSaveProject_SelectorPicksExistingInvoice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.meta.Set(ctx, 10, domain.MetaInvoiceNumber, "INV-1")

	values := detailsForm(
		domain.FieldFinalInvoiceEdit, "12",
		domain.FieldInvoiceNumberEdit+"12", "<b>INV-12</b>",
	)
	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), values))

	assert.Equal(t, "INV-12", f.meta.value(10, domain.MetaInvoiceNumber))
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.InvoiceNumberChanged{PostID: 10, OldNumber: "INV-1", NewNumber: "INV-12"}, f.events.events[0])
}

func TestSaveProject_NoneSelectorKeepsEmptyNumber(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	values := detailsForm(
		domain.FieldFinalInvoiceEdit, domain.NoFinalInvoice,
		domain.MetaInvoiceNumber, "INV-9",
	)
	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), values))

	assert.False(t, f.meta.has(10, domain.MetaInvoiceNumber))
	assert.Empty(t, f.events.events)
}

func TestSaveProject_FinishedTransition(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), detailsForm(domain.MetaIsFinished, "1")))
	require.Len(t, f.events.events, 1)
	assert.Equal(t, domain.FinishedStateChanged{PostID: 10, IsFinished: true}, f.events.events[0])

	// unchanged state does not emit again
	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), detailsForm(domain.MetaIsFinished, "1")))
	assert.Len(t, f.events.events, 1)

	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), detailsForm()))
	require.Len(t, f.events.events, 2)
	assert.Equal(t, domain.FinishedStateChanged{PostID: 10, IsFinished: false}, f.events.events[1])
}

func TestSaveProject_FailedWriteSuppressesEvent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.meta.failKeys = map[string]bool{domain.MetaIsFinished: true}

	values := detailsForm(
		domain.MetaIsFinished, "1",
		domain.MetaInvoiceNumber, "INV-1",
		domain.FieldIsFinalInvoice, "1",
	)
	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), values))

	assert.False(t, f.meta.has(10, domain.MetaIsFinished))
	assert.Equal(t, "INV-1", f.meta.value(10, domain.MetaInvoiceNumber))
	require.Len(t, f.events.events, 1, "only the persisted change is announced")
	assert.Equal(t, domain.InvoiceNumberChanged{PostID: 10, OldNumber: "", NewNumber: "INV-1"}, f.events.events[0])
}

func TestSaveProject_EditGrantIsPerPost(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	scoped := editor().WithPosts(11)

	f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), scoped, detailsForm(domain.MetaPrice, "10")))
	assert.False(t, f.meta.has(10, domain.MetaPrice))

	f.ctrl.SaveProject(ctx, saveContext(publishedPost(11), scoped, detailsForm(domain.MetaPrice, "10")))
	assert.Equal(t, "10", f.meta.value(11, domain.MetaPrice))
}

func TestSaveProject_InvoicedRequiresAdministration(t *testing.T) {
	ctx := context.Background()

	t.Run("editor leaves stored flag alone", func(t *testing.T) {
		f := newFixture()
		f.meta.Set(ctx, 10, domain.MetaIsInvoiced, "1")

		f.ctrl.SaveProject(ctx, saveContext(draftPost(10), editor(), detailsForm()))

		assert.Equal(t, "1", f.meta.value(10, domain.MetaIsInvoiced))
	})

	t.Run("administrator can clear it", func(t *testing.T) {
		f := newFixture()
		f.meta.Set(ctx, 10, domain.MetaIsInvoiced, "1")

		f.ctrl.SaveProject(ctx, saveContext(draftPost(10), admin(), detailsForm()))

		assert.False(t, f.meta.has(10, domain.MetaIsInvoiced))
	})
}

func TestSaveProject_Guards(t *testing.T) {
	ctx := context.Background()
	values := func() url.Values {
		return detailsForm(domain.MetaPrice, "10")
	}

	t.Run("autosave", func(t *testing.T) {
		f := newFixture()
		sc := saveContext(publishedPost(10), editor(), values())
		sc.Autosave = true
		f.ctrl.SaveProject(ctx, sc)
		assert.False(t, f.meta.has(10, domain.MetaPrice))
	})

	t.Run("bad nonce", func(t *testing.T) {
		f := newFixture()
		v := values()
		v[domain.DetailsNonceField] = []string{"forged"}
		f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), v))
		assert.False(t, f.meta.has(10, domain.MetaPrice))
	})

	t.Run("missing nonce", func(t *testing.T) {
		f := newFixture()
		v := values()
		delete(v, domain.DetailsNonceField)
		f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), editor(), v))
		assert.False(t, f.meta.has(10, domain.MetaPrice))
	})

	t.Run("no edit capability", func(t *testing.T) {
		f := newFixture()
		f.ctrl.SaveProject(ctx, saveContext(publishedPost(10), auth.NewUser(2, "viewer"), values()))
		assert.False(t, f.meta.has(10, domain.MetaPrice))
	})
}

func TestFinalInvoiceNumber(t *testing.T) {
	tests := []struct {
		name      string
		values    map[string][]string
		wantFinal bool
		want      string
	}{
		{name: "nothing selected", values: map[string][]string{}},
		{name: "selector none", values: map[string][]string{domain.FieldFinalInvoiceEdit: {"0"}}},
		{name: "selector not numeric", values: map[string][]string{domain.FieldFinalInvoiceEdit: {"abc"}}},
		{name: "selector without edited number", values: map[string][]string{domain.FieldFinalInvoiceEdit: {"5"}}},
		{
			name: "selector with edited number",
			values: map[string][]string{
				domain.FieldFinalInvoiceEdit:       {"5"},
				domain.FieldInvoiceNumberEdit + "5": {"INV-5"},
			},
			wantFinal: true,
			want:      "INV-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := saveContext(publishedPost(1), editor(), tt.values)
			data := Definition(sc).Validate(sc.Form)

			got, final := finalInvoiceNumber(sc.Form, data)
			assert.Equal(t, tt.wantFinal, final)
			if tt.wantFinal {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
