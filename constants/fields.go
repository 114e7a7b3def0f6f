package constants

// LabelFieldKeys is the closed key set of a label record. Every key is present
// in extractor output, null when the text does not carry it.
var LabelFieldKeys = []string{
	"packer_name_address",
	"packer_iso_code",
	"packed_for_name_address",
	"packed_for_packer_code",
	"origin",
	"product_name",
	"variety",
	"category",
	"calibre",
	"piece_count",
	"datage_code",
	"post_product_treatement",
	"bio",
	"additionals_informations",
	"net_weight",
	"prepacked",
	"traceability_note",
	"traceability_code",
	"lots",
	"intended_use",
}

// DeliveryNoteRootKeys is the closed root key set of a delivery note record.
var DeliveryNoteRootKeys = []string{
	"shipper_name_address",
	"shipper_siret",
	"delivery_note_number",
	"delivery_date",
	"recipient_name_address",
	"recipient_siret",
}

// LineItemKeys is the closed key set of a delivery note line item.
var LineItemKeys = []string{
	"product_name",
	"variety",
	"quantity",
	"unit",
	"lot",
	"origin",
}

// Verdict literals the compliance oracle is constrained to.
const (
	VerdictCompliant    = "REGLEMENTAIRE"
	VerdictNonCompliant = "NON REGLEMENTAIRE"
)
