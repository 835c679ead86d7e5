package statement

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/viac"
	"github.com/etnz/viac/date"
	"github.com/etnz/viac/pdftext"
)

// isin below is a valid world equity fund ISIN.
const isin = "IE00B4L5Y983"

func doc(path string, lines ...string) *pdftext.Document {
	return &pdftext.Document{Path: path, Author: "VIAC", Pages: [][]string{lines}}
}

func germanBuy() *pdftext.Document {
	return doc("buy_de.pdf",
		"Börsenabrechnung - Kauf",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"Wir haben für Sie gekauft:",
		"10.00000\tAnt\tWorld ex CH",
		"ISIN:\t"+isin,
		"Kurs:\tCHF 100.00",
		"Betrag\tCHF\t1'000.00",
		"Valuta 16.03.2021",
		"Valuta\tCHF\t1'000.00",
	)
}

func frenchBuy() *pdftext.Document {
	return doc("buy_fr.pdf",
		"Opération de bourse - Achat",
		"au nom de la Banque WIR",
		"Contrat\t3a.123456",
		"Portefeuille\tP1",
		"10.00000",
		"World ex CH",
		"ISIN:\t"+isin,
		"Cours:\tCHF 100.00",
		"Montant\tCHF\t1'000.00",
		"Valeur 16.03.2021",
		"Valeur\tCHF\t1'000.00",
	)
}

func TestParseGermanBuy(t *testing.T) {
	r, err := Parse(germanBuy())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.LineErrors) != 0 {
		t.Fatalf("unexpected line errors: %v", r.LineErrors)
	}
	if r.Language != German || r.Account != "3a.123456" || r.Portfolio != "P1" {
		t.Errorf("header: got %s %s %s", r.Language, r.Account, r.Portfolio)
	}
	if len(r.Transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(r.Transactions))
	}
	b, ok := r.Transactions[0].(viac.Buy)
	if !ok {
		t.Fatalf("got %T, want viac.Buy", r.Transactions[0])
	}
	if b.ISIN != isin || b.Name != "World ex CH" {
		t.Errorf("security: got %q %q", b.ISIN, b.Name)
	}
	if want := date.New(2021, 3, 16); b.When() != want {
		t.Errorf("date: got %s, want %s", b.When(), want)
	}
	if want := viac.M(-1000, "CHF"); !b.Value().Equal(want) {
		t.Errorf("value: got %s, want %s", b.Value(), want)
	}
	if want := viac.M(100, "CHF"); !b.Price.Equal(want) {
		t.Errorf("price: got %s, want %s", b.Price, want)
	}
	if want := viac.Q(10); !b.Quantity.Equal(want) {
		t.Errorf("quantity: got %s, want %s", b.Quantity, want)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

// The French layout must yield the same transaction as the German one.
func TestFrenchBuyMatchesGerman(t *testing.T) {
	de, err := Parse(germanBuy())
	if err != nil {
		t.Fatalf("german: %v", err)
	}
	fr, err := Parse(frenchBuy())
	if err != nil {
		t.Fatalf("french: %v", err)
	}
	if fr.Language != French {
		t.Fatalf("language: got %s", fr.Language)
	}
	g := de.Transactions[0].(viac.Buy)
	f := fr.Transactions[0].(viac.Buy)
	if f.ISIN != g.ISIN || f.Name != g.Name || f.When() != g.When() {
		t.Errorf("identity differs: %v vs %v", f, g)
	}
	if !f.Value().Equal(g.Value()) || !f.Price.Equal(g.Price) || !f.Quantity.Equal(g.Quantity) {
		t.Errorf("amounts differ: %v vs %v", f, g)
	}
}

func TestParseForeignCurrencyBuy(t *testing.T) {
	r, err := Parse(doc("buy_usd.pdf",
		"Börsenabrechnung - Kauf",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"9.37528\tAnt\tWorld ex CH",
		"ISIN:\t"+isin,
		"Kurs:\tUSD 96.20",
		"Betrag\tUSD\t901.90",
		"Umrechnungskurs CHF/USD 0.92",
		"Valuta 16.03.2021",
		"Valuta\tCHF\t829.75",
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := r.Transactions[0].(viac.Buy)
	if want := viac.M(901.9, "USD"); !b.Gross.Equal(want) {
		t.Errorf("gross: got %s, want %s", b.Gross, want)
	}
	if want := viac.M(-829.75, "CHF"); !b.Value().Equal(want) {
		t.Errorf("value: got %s, want %s", b.Value(), want)
	}
	if got := b.Rate.String(); got != "0.92" {
		t.Errorf("rate: got %s, want 0.92", got)
	}
}

func TestParseDividendAndTaxRefund(t *testing.T) {
	dividend := doc("div.pdf",
		"Dividendenausschüttung",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"10.00000\tAnt\tWorld ex CH",
		"ISIN:\t"+isin,
		"Ausschüttung:\tCHF 0.50",
		"Valuta 05.07.2021",
		"Valuta\tCHF\t5.00",
	)
	r, err := Parse(dividend)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	d, ok := r.Transactions[0].(viac.Dividend)
	if !ok {
		t.Fatalf("got %T, want viac.Dividend", r.Transactions[0])
	}
	if want := viac.M(0.5, "CHF"); !d.PerShare.Equal(want) {
		t.Errorf("per share: got %s, want %s", d.PerShare, want)
	}

	refund := doc("refund.pdf",
		"Dividendenausschüttung",
		"Rückerstattung Quellensteuer",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"10.00000\tAnt\tWorld ex CH",
		"ISIN:\t"+isin,
		"Ausschüttung:\tCHF 0.15",
		"Valuta 05.07.2021",
		"Valuta\tCHF\t1.50",
	)
	r, err = Parse(refund)
	if err != nil {
		t.Fatalf("Parse refund: %v", err)
	}
	if _, ok := r.Transactions[0].(viac.TaxRefund); !ok {
		t.Fatalf("got %T, want viac.TaxRefund", r.Transactions[0])
	}
}

func TestParseInterest(t *testing.T) {
	r, err := Parse(doc("interest.pdf",
		"Zinsgutschrift",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"Am 31.12.2021 haben wir Ihrem Konto gutgeschrieben:",
		"Verrechneter Betrag\tCHF\t12.34",
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	in, ok := r.Transactions[0].(viac.Interest)
	if !ok {
		t.Fatalf("got %T, want viac.Interest", r.Transactions[0])
	}
	if want := date.New(2021, 12, 31); in.When() != want {
		t.Errorf("date: got %s, want %s", in.When(), want)
	}
	if want := viac.M(12.34, "CHF"); !in.Value().Equal(want) {
		t.Errorf("value: got %s, want %s", in.Value(), want)
	}
}

func TestParseFeeAndDeposit(t *testing.T) {
	r, err := Parse(doc("fee.pdf",
		"Verwaltungsgebühr",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"Valuta 31.03.2021",
		"Valuta\tCHF\t0.48",
	))
	if err != nil {
		t.Fatalf("fee: %v", err)
	}
	if f, ok := r.Transactions[0].(viac.Fee); !ok || !f.Value().IsNegative() {
		t.Errorf("fee: got %T %v", r.Transactions[0], r.Transactions[0].Value())
	}

	r, err = Parse(doc("deposit.pdf",
		"Zahlungseingang",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"Valuta 01.03.2021",
		"Valuta\tCHF\t1'000.00",
	))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if d, ok := r.Transactions[0].(viac.Deposit); !ok || !d.Value().IsPositive() {
		t.Errorf("deposit: got %T %v", r.Transactions[0], r.Transactions[0].Value())
	}
}

func TestParseAccountStatement(t *testing.T) {
	r, err := Parse(&pdftext.Document{
		Path:   "statement.pdf",
		Author: "VIAC",
		Pages: [][]string{{
			"Kontoauszug 2021",
			"Vertrag\t3a.123456",
			"Portfolio\tP1",
			"Datum\tText\tBetrag\tSaldo",
			"01.03.2021\tEinlage\t1'000.00\tCHF\t1'000.00",
			"31.03.2021\tGebühren\t0.48\tCHF\t999.52",
			"30.06.2021\tRückvergütung\t1.00\tCHF\t1'000.52",
			"31.12.2021\tZinsen\t0.10\tCHF\t1'000.62",
		}},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Transactions) != 3 {
		t.Fatalf("got %d transactions, want 3: %v", len(r.Transactions), r.Transactions)
	}
	if len(r.LineErrors) != 1 {
		t.Fatalf("got %d line errors, want 1: %v", len(r.LineErrors), r.LineErrors)
	}
	var lineErr *viac.UnparseableLineError
	if !errors.As(r.LineErrors[0], &lineErr) {
		t.Fatalf("got %T, want *viac.UnparseableLineError", r.LineErrors[0])
	}
	kinds := []viac.Kind{viac.KindDeposit, viac.KindFee, viac.KindInterest}
	for i, want := range kinds {
		if got := r.Transactions[i].What(); got != want {
			t.Errorf("transaction %d: got %s, want %s", i, got, want)
		}
	}
}

func TestParseStatementDividendSection(t *testing.T) {
	r, err := Parse(&pdftext.Document{
		Path:   "statement.pdf",
		Author: "VIAC",
		Pages: [][]string{{
			"Kontoauszug 2021",
			"Vertrag\t3a.123456",
			"Portfolio\tP1",
			"World ex CH\tISIN: " + isin,
			"05.07.2021\tDividende\t5.00\tCHF",
			"05.07.2021\tSteuerrückerstattung\t1.50\tCHF",
		}},
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Transactions) != 2 || len(r.LineErrors) != 0 {
		t.Fatalf("got %d transactions, %v errors", len(r.Transactions), r.LineErrors)
	}
	d := r.Transactions[0].(viac.Dividend)
	if d.ISIN != isin {
		t.Errorf("dividend ISIN: got %q, want %q", d.ISIN, isin)
	}
	if _, ok := r.Transactions[1].(viac.TaxRefund); !ok {
		t.Errorf("got %T, want viac.TaxRefund", r.Transactions[1])
	}
}

func TestParseWrappedDescription(t *testing.T) {
	rows, errs := extractLines(&pdftext.Document{
		Path:   "statement.pdf",
		Author: "VIAC",
		Pages: [][]string{{
			"01.03.2021\tEinlage aus\t1'000.00\tCHF",
			"Überweisung Vorsorgestiftung",
		}},
	})
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if want := "Einlage aus Überweisung Vorsorgestiftung"; rows[0].Description != want {
		t.Errorf("description: got %q, want %q", rows[0].Description, want)
	}
}

func TestParseRejectsForeignAuthor(t *testing.T) {
	_, err := Parse(&pdftext.Document{Path: "other.pdf", Author: "UBS", Pages: [][]string{{"Kontoauszug"}}})
	if !errors.Is(err, viac.ErrUnrecognizedDocument) {
		t.Fatalf("got %v, want ErrUnrecognizedDocument", err)
	}
}

func TestParseRejectsUnknownKind(t *testing.T) {
	_, err := Parse(doc("letter.pdf", "Vertrag\t3a.123456", "Sehr geehrter Herr"))
	if !errors.Is(err, viac.ErrUnrecognizedDocument) {
		t.Fatalf("got %v, want ErrUnrecognizedDocument", err)
	}
}

func TestParseRejectsDividendCorrection(t *testing.T) {
	_, err := Parse(doc("storno.pdf",
		"Korrektur Dividendenausschüttung",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
	))
	if !errors.Is(err, viac.ErrUnsupportedDocument) {
		t.Fatalf("got %v, want ErrUnsupportedDocument", err)
	}
}

func TestPartialAdviceReportsLine(t *testing.T) {
	// buy advice with the price line missing
	r, err := Parse(doc("broken.pdf",
		"Börsenabrechnung - Kauf",
		"Vertrag\t3a.123456",
		"Portfolio\tP1",
		"10.00000\tAnt\tWorld ex CH",
		"ISIN:\t"+isin,
		"Betrag\tCHF\t1'000.00",
		"Valuta 16.03.2021",
		"Valuta\tCHF\t1'000.00",
	))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(r.Transactions) != 0 || len(r.LineErrors) != 1 {
		t.Fatalf("got %d transactions, %d errors", len(r.Transactions), len(r.LineErrors))
	}
	if !strings.Contains(r.LineErrors[0].Error(), "Kurs:") {
		t.Errorf("error does not name the missing marker: %v", r.LineErrors[0])
	}
}

// Keyword tables resolve by first match, so no earlier phrase may be a
// substring of a later one.
func TestKeywordOrder(t *testing.T) {
	for _, loc := range locales {
		for i := range loc.keywords {
			for j := i + 1; j < len(loc.keywords); j++ {
				if strings.Contains(loc.keywords[j].word, loc.keywords[i].word) {
					t.Errorf("%s: %q shadows %q", loc.lang, loc.keywords[i].word, loc.keywords[j].word)
				}
			}
		}
	}
}
