package statement

import (
	"regexp"

	"github.com/etnz/viac"
)

// Language tags the locale a statement is printed in.
type Language string

const (
	German Language = "de"
	French Language = "fr"
)

// docClass is the statement kind resolved from the document's headline.
type docClass int

const (
	docUnknown docClass = iota
	docBuy
	docSell
	docDividend           // also covers tax refunds, split on a sub-marker
	docDividendCorrection // storno of a dividend, not supported
	docFee
	docInterest
	docDeposit
	docAccountStatement // tabular statement, many rows per document
)

// classAnchor maps a headline phrase to a document class.
type classAnchor struct {
	marker string
	class  docClass
}

// keyword maps a transaction-row phrase to a transaction kind.
type keyword struct {
	word string
	kind viac.Kind
}

// locale bundles every language-specific phrase the parser needs. The two
// instances below are the whole difference between a German and a French
// statement; the extraction logic is shared.
type locale struct {
	lang Language

	// anchors identify the language itself.
	anchors []string

	// docs classifies the document; ordered, first match wins.
	docs []classAnchor

	// taxRefundMarker distinguishes a withholding tax refund from a plain
	// dividend advice, correctionMarker a dividend storno.
	taxRefundMarker  string
	correctionMarker string

	// field labels on advice documents
	contract     string // account number label
	portfolio    string // portfolio number label
	valuta       string // value date prefix and booked amount title
	gross        string // gross amount title
	price        string // unit price label
	distribution string // dividend per share label
	interest     string // interest amount title
	stampTax     string // stamp tax title
	conversion   string // conversion rate label
	conversionAt int    // word index of the rate value on the conversion line

	interestDate *regexp.Regexp // captures the credit date from the interest sentence

	// keywords classifies rows of a tabular account statement; ordered,
	// first match wins, so more specific phrases come first.
	keywords []keyword
}

var german = locale{
	lang: German,
	anchors: []string{
		"Börsenabrechnung",
		"Dividendenausschüttung",
		"Verwaltungsgebühr",
		"Zinsgutschrift",
		"Zahlungseingang",
		"Kontoauszug",
		"Vertrag",
	},
	docs: []classAnchor{
		{"Börsenabrechnung - Kauf", docBuy},
		{"Börsenabrechnung - Verkauf", docSell},
		{"Korrektur Dividendenausschüttung", docDividendCorrection},
		{"Dividendenausschüttung", docDividend},
		{"Verwaltungsgebühr", docFee},
		{"Zinsgutschrift", docInterest},
		{"Zahlungseingang", docDeposit},
		{"Kontoauszug", docAccountStatement},
	},
	taxRefundMarker:  "Rückerstattung Quellensteuer",
	correctionMarker: "Korrektur Dividendenausschüttung",
	contract:         "Vertrag",
	portfolio:        "Portfolio",
	valuta:           "Valuta",
	gross:            "Betrag",
	price:            "Kurs:",
	distribution:     "Ausschüttung:",
	interest:         "Verrechneter Betrag",
	stampTax:         "Stempelsteuer",
	conversion:       "Umrechnungskurs",
	conversionAt:     2,
	interestDate:     regexp.MustCompile(`^Am (\d{2}\.\d{2}\.\d{4}) haben wir Ihrem Konto gutgeschrieben`),
	keywords: []keyword{
		{"Steuerrückerstattung", viac.KindTaxRefund},
		{"Verkauf", viac.KindSell},
		{"Kauf", viac.KindBuy},
		{"Einlage", viac.KindDeposit},
		{"Dividende", viac.KindDividend},
		{"Gebühren", viac.KindFee},
		{"Zinsen", viac.KindInterest},
	},
}

var french = locale{
	lang: French,
	anchors: []string{
		"de la Banque WIR",
		"Opération de bourse",
		"Avis de dividende",
		"Avis de versement",
		"Relevé de compte",
		"Contrat",
	},
	docs: []classAnchor{
		{"Opération de bourse - Achat", docBuy},
		{"Opération de bourse - Vente", docSell},
		{"Avis de dividende", docDividend},
		{"Commission", docFee},
		{"Intérêts", docInterest},
		{"Avis de versement", docDeposit},
		{"Relevé de compte", docAccountStatement},
	},
	taxRefundMarker: "Remboursement d'impôt à la source",
	contract:        "Contrat",
	portfolio:       "Portefeuille",
	valuta:          "Valeur",
	gross:           "Montant",
	price:           "Cours:",
	distribution:    "Dividende distribué:",
	interest:        "Montant crédité",
	stampTax:        "Droits de timbre",
	conversion:      "Taux de conversion",
	conversionAt:    4,
	interestDate:    regexp.MustCompile(`^Nous avons crédité le (\d{2}\.\d{2}\.\d{4})`),
	keywords: []keyword{
		{"Remboursement d'impôt", viac.KindTaxRefund},
		{"Vente", viac.KindSell},
		{"Achat", viac.KindBuy},
		{"Apport", viac.KindDeposit},
		{"Dividende", viac.KindDividend},
		{"Frais", viac.KindFee},
		{"Intérêts", viac.KindInterest},
	},
}

// locales in detection order: the French anchor "de la Banque WIR" is the
// discriminating phrase on bilingual headers, so French is probed first.
var locales = []*locale{&french, &german}
