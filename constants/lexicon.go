package constants

// Lexicon tables behind the regex extraction engine. These are deliberately
// package-level named values so they can be tested on their own.

// UnitStoplist lists stand-alone technical tokens stripped from every captured
// value: measurement units and the label words of sibling fields.
var UnitStoplist = []string{
	"mm", "g", "kg", "pc", "pcs",
	"cat", "categorie", "cal", "calibre",
	"lot", "emb", "bio", "net", "poids",
	"date", "code", "barcode", "ean",
}

// OriginDenylist lists administrative and treatment-mention tokens that leak
// into the origin span when OCR drops a line break.
var OriginDenylist = []string{
	"Ne", "LOT", "LE", "LA", "DR",
	"EMBALLE", "EMBALLÉ", "POUR", "TRAITE", "AVEC", "ET",
	"CIRE", "E", "NET", "POIDS",
	"TRAITEMENTS", "POST", "RÉCOLTE", "RECOLTE", "PAR",
	"CONDITIONNÉ", "CONDITIONNE",
	"ST", "CHARLES", "INTERNATIONAL", "BP", "PERPIGNAN",
	"IMAZALIL", "CIRE E", "CIRE E-903",
	"TRAITE AVEC", "TRAITE AVEC IMAZALIL", "TRAITE AVEC IMAZALIL ET CIRE E-903",
}

// KnownCountries is the allow-list used by the origin fallback scans.
var KnownCountries = []string{
	"FRANCE", "ESPAGNE", "ITALIE", "MAROC", "TUNISIE", "ALLEMAGNE", "BELGIQUE",
	"PAYS-BAS", "PORTUGAL", "GRECE", "TURQUIE", "ISRAEL",
	"PÉROU", "PEROU", "CHILI", "AFRIQUE DU SUD", "NOUVELLE-ZÉLANDE", "NOUVELLE-ZELANDE",
}

// FieldLabelStopwords are sibling field labels; a value containing one of them
// was contaminated by a missing line break and is truncated at the label.
var FieldLabelStopwords = []string{
	"Calibre", "CAT", "Catégorie", "Nombre", "Lot", "EMB", "COC",
	"Origin", "Origine", "EAN", "Poids", "Net", "Date", "Code",
}
