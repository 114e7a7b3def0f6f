// Package label defines the closed record schemas exchanged between the
// extraction engines and the compliance validator. Normalization to the closed
// key set happens at every schema boundary: expected keys default to null,
// unexpected keys are dropped, values are trimmed and empty strings become null.
package label

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is the flat label schema. Every key is always present in JSON output;
// a nil pointer marshals as null.
type Record struct {
	PackerNameAddress    *string `json:"packer_name_address"`
	PackerISOCode        *string `json:"packer_iso_code"`
	PackedForNameAddress *string `json:"packed_for_name_address"`
	PackedForPackerCode  *string `json:"packed_for_packer_code"`
	Origin               *string `json:"origin"`
	ProductName          *string `json:"product_name"`
	Variety              *string `json:"variety"`
	Category             *string `json:"category"`
	Calibre              *string `json:"calibre"`
	PieceCount           *string `json:"piece_count"`
	DatageCode           *string `json:"datage_code"`
	PostProductTreatment *string `json:"post_product_treatement"`
	Bio                  *bool   `json:"bio"`
	AdditionalsInfos     *string `json:"additionals_informations"`
	NetWeight            *string `json:"net_weight"`
	Prepacked            *bool   `json:"prepacked"`
	TraceabilityNote     *string `json:"traceability_note"`
	TraceabilityCode     *string `json:"traceability_code"`
	Lots                 *string `json:"lots"`
	IntendedUse          *string `json:"intended_use"`
}

// LineItem is one product line of a delivery note.
type LineItem struct {
	ProductName *string `json:"product_name"`
	Variety     *string `json:"variety"`
	Quantity    *string `json:"quantity"`
	Unit        *string `json:"unit"`
	Lot         *string `json:"lot"`
	Origin      *string `json:"origin"`
}

// DeliveryNote is the delivery note (bon de livraison) schema. Items is always
// a sequence, possibly empty, never absent.
type DeliveryNote struct {
	ShipperNameAddress   *string    `json:"shipper_name_address"`
	ShipperSiret         *string    `json:"shipper_siret"`
	DeliveryNoteNumber   *string    `json:"delivery_note_number"`
	DeliveryDate         *string    `json:"delivery_date"`
	RecipientNameAddress *string    `json:"recipient_name_address"`
	RecipientSiret       *string    `json:"recipient_siret"`
	Items                []LineItem `json:"items"`
}

// RecordFromMap normalizes a decoded JSON object to the closed label schema.
func RecordFromMap(m map[string]any) Record {
	return Record{
		PackerNameAddress:    optString(m["packer_name_address"]),
		PackerISOCode:        optString(m["packer_iso_code"]),
		PackedForNameAddress: optString(m["packed_for_name_address"]),
		PackedForPackerCode:  optString(m["packed_for_packer_code"]),
		Origin:               optString(m["origin"]),
		ProductName:          optString(m["product_name"]),
		Variety:              optString(m["variety"]),
		Category:             optString(m["category"]),
		Calibre:              optString(m["calibre"]),
		PieceCount:           optString(m["piece_count"]),
		DatageCode:           optString(m["datage_code"]),
		PostProductTreatment: optString(m["post_product_treatement"]),
		Bio:                  optBool(m["bio"]),
		AdditionalsInfos:     optString(m["additionals_informations"]),
		NetWeight:            optString(m["net_weight"]),
		Prepacked:            optBool(m["prepacked"]),
		TraceabilityNote:     optString(m["traceability_note"]),
		TraceabilityCode:     optString(m["traceability_code"]),
		Lots:                 optString(m["lots"]),
		IntendedUse:          optString(m["intended_use"]),
	}
}

// DeliveryNoteFromMap normalizes a decoded JSON object to the closed delivery
// note schema. Non-object entries under "items" are discarded.
func DeliveryNoteFromMap(m map[string]any) DeliveryNote {
	dn := DeliveryNote{
		ShipperNameAddress:   optString(m["shipper_name_address"]),
		ShipperSiret:         optString(m["shipper_siret"]),
		DeliveryNoteNumber:   optString(m["delivery_note_number"]),
		DeliveryDate:         optString(m["delivery_date"]),
		RecipientNameAddress: optString(m["recipient_name_address"]),
		RecipientSiret:       optString(m["recipient_siret"]),
		Items:                []LineItem{},
	}
	items, _ := m["items"].([]any)
	for _, raw := range items {
		it, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		dn.Items = append(dn.Items, LineItem{
			ProductName: optString(it["product_name"]),
			Variety:     optString(it["variety"]),
			Quantity:    optString(it["quantity"]),
			Unit:        optString(it["unit"]),
			Lot:         optString(it["lot"]),
			Origin:      optString(it["origin"]),
		})
	}
	return dn
}

// optString coerces a JSON value to a trimmed non-empty string, or nil.
// Numbers are formatted; other types are dropped.
func optString(v any) *string {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return nil
		}
		return &s
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		return &s
	case int:
		s := fmt.Sprintf("%d", t)
		return &s
	case bool:
		s := strconv.FormatBool(t)
		return &s
	default:
		return nil
	}
}

// optBool coerces a JSON value to a boolean, accepting the French literals the
// model tends to produce.
func optBool(v any) *bool {
	switch t := v.(type) {
	case bool:
		b := t
		return &b
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "vrai", "oui", "yes":
			b := true
			return &b
		case "false", "faux", "non", "no":
			b := false
			return &b
		}
		return nil
	default:
		return nil
	}
}

// Str dereferences an optional string, empty when nil.
func Str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Set returns true when the optional string holds non-blank content.
func Set(p *string) bool {
	return p != nil && strings.TrimSpace(*p) != ""
}
