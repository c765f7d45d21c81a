package domain

import "github.com/orbis-25/orbis-projects-backend/internal/auth"

// Metadata keys stored per project post.
const (
	MetaPrice            = "_orbis_price"
	MetaPrincipalID      = "_orbis_project_principal_id"
	MetaAgreementID      = "_orbis_project_agreement_id"
	MetaIsFinished       = "_orbis_project_is_finished"
	MetaIsInvoicable     = "_orbis_project_is_invoicable"
	MetaIsInvoiced       = "_orbis_project_is_invoiced"
	MetaInvoiceNumber    = "_orbis_project_invoice_number"
	MetaSecondsAvailable = "_orbis_project_seconds_available"
	MetaProjectID        = "_orbis_project_id"
)

// NoFinalInvoice is the selector value meaning no invoice is marked final.
// Invoice ids are never zero, so the value cannot collide with a real id.
const NoFinalInvoice = "0"

// Capabilities checked while saving a project.
const (
	CapEditPost              = auth.CapEditPost
	CapProjectAdministration = "edit_orbis_project_administration"
)

// Nonce names and actions of the two project meta boxes.
const (
	DetailsNonceField   = "orbis_project_details_meta_box_nonce"
	DetailsNonceAction  = "orbis_save_project_details"
	InvoicesNonceField  = "orbis_project_invoices_meta_box_nonce"
	InvoicesNonceAction = "orbis_save_project_invoices"
)

// Form fields of the invoices meta box.
const (
	FieldIsFinalInvoice     = "_orbis_project_is_final_invoice"
	FieldFinalInvoiceEdit   = "_is_final_invoice_edit"
	FieldInvoiceList        = "_orbis_project_invoice_list"
	FieldProjectID          = "_project_id"
	FieldInvoiceAdd         = "orbis_projects_invoice_add"
	FieldInvoiceDate        = "_orbis_project_invoice_date"
	FieldInvoiceAmount      = "_orbis_project_invoice_amount"
	FieldInvoiceSeconds     = "_orbis_project_invoice_seconds_available"
	FieldInvoiceDateEdit    = "_orbis_project_invoice_date_edit_"
	FieldInvoiceAmountEdit  = "_orbis_project_invoice_amount_edit_"
	FieldInvoiceSecondsEdit = "_orbis_project_invoice_seconds_available_edit_"
	FieldInvoiceNumberEdit  = "_orbis_project_invoice_number_edit_"
)
