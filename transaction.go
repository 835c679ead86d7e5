package viac

import (
	"fmt"

	"github.com/etnz/viac/date"
	"github.com/shopspring/decimal"
)

// Kind is a typed string identifying the nature of a transaction.
//
// The values are the account transaction type names of the downstream
// importer (name.abuchen.portfolio.model.AccountTransaction), so the export
// can use them verbatim.
type Kind string

const (
	KindBuy       Kind = "BUY"        // Kauf / Achat
	KindSell      Kind = "SELL"       // Verkauf / Vente
	KindDeposit   Kind = "DEPOSIT"    // Einlage / Apport
	KindDividend  Kind = "DIVIDENDS"  // Dividende
	KindTaxRefund Kind = "TAX_REFUND" // Steuerrückerstattung / Remboursement d'impôt
	KindFee       Kind = "FEES"       // Gebühren / Frais
	KindInterest  Kind = "INTEREST"   // Zinsen / Intérêts
)

// IsTrade reports whether the kind moves shares (Buy or Sell).
func (k Kind) IsTrade() bool { return k == KindBuy || k == KindSell }

// IsSecurity reports whether the kind references a security.
func (k Kind) IsSecurity() bool {
	return k == KindBuy || k == KindSell || k == KindDividend || k == KindTaxRefund
}

// Transaction defines the common interface for all typed statement events.
type Transaction interface {
	What() Kind      // What returns the kind of the transaction (e.g. "BUY").
	When() date.Date // When returns the value date of the transaction.
	Where() string   // Where returns the portfolio number the transaction belongs to.
	Value() Money    // Value returns the signed booked amount, from the account's perspective.
	Source() string  // Source returns the provenance note, typically the source file name.
	Validate() error // Validate enforces the kind's sign invariants.
}

// baseTx carries the fields common to every transaction.
type baseTx struct {
	Kind      Kind
	Date      date.Date
	Portfolio string // portfolio number the statement belongs to
	Account   string // contract number, diagnostics only
	Amount    Money  // signed booked value (the statement's Valuta/Valeur)
	Note      string // provenance note, typically the source file name
}

func (t baseTx) What() Kind      { return t.Kind }
func (t baseTx) When() date.Date { return t.Date }
func (t baseTx) Where() string   { return t.Portfolio }
func (t baseTx) Value() Money    { return t.Amount }
func (t baseTx) Source() string  { return t.Note }

// validate enforces the invariants shared by all kinds.
func (t baseTx) validate() error {
	if t.Date.IsZero() {
		return fmt.Errorf("%s transaction has no date", t.Kind)
	}
	if t.Portfolio == "" {
		return fmt.Errorf("%s transaction on %s has no portfolio", t.Kind, t.Date)
	}
	return nil
}

// secTx carries the fields common to security-based transactions
// (buy, sell, dividend, tax refund).
type secTx struct {
	baseTx
	ISIN  string
	Name  string          // security display name as printed on the statement
	Gross Money           // gross amount (Betrag/Montant), in trading currency
	Rate  decimal.Decimal // printed conversion rate to the booking currency, zero when absent
	Tax   Money           // stamp tax (Stempelsteuer/Droits de timbre), zero when absent
}

func (t secTx) validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if err := ValidateISIN(t.ISIN); err != nil {
		return fmt.Errorf("%s transaction on %s: %w", t.Kind, t.Date, err)
	}
	return nil
}

// Buy is the purchase of a security. Its booked amount is negative: cash
// leaves the account.
type Buy struct {
	secTx
	Quantity Quantity // number of shares as printed on the statement
	Price    Money    // effective unit price (Kurs/Cours)
}

func (t Buy) Validate() error {
	if err := t.secTx.validate(); err != nil {
		return err
	}
	if !t.Amount.IsNegative() {
		return fmt.Errorf("buy on %s: booked amount must be negative, got %s", t.Date, t.Amount)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("buy on %s: unit price must be positive, got %s", t.Date, t.Price)
	}
	return nil
}

// Sell is the sale of a security. Its booked amount is positive.
type Sell struct {
	secTx
	Quantity Quantity
	Price    Money
}

func (t Sell) Validate() error {
	if err := t.secTx.validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("sell on %s: booked amount must be positive, got %s", t.Date, t.Amount)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("sell on %s: unit price must be positive, got %s", t.Date, t.Price)
	}
	return nil
}

// Dividend is a distribution credited for a held security.
type Dividend struct {
	secTx
	Quantity Quantity // entitled shares as printed on the statement
	PerShare Money    // distribution per share (Ausschüttung/Dividende distribué)
}

func (t Dividend) Validate() error {
	if err := t.secTx.validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("dividend on %s: booked amount must be positive, got %s", t.Date, t.Amount)
	}
	return nil
}

// TaxRefund is a withholding tax reimbursement for a security distribution.
type TaxRefund struct {
	secTx
	Quantity Quantity
	PerShare Money
}

func (t TaxRefund) Validate() error {
	if err := t.secTx.validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("tax refund on %s: booked amount must be positive, got %s", t.Date, t.Amount)
	}
	return nil
}

// Deposit is an incoming payment into the account.
type Deposit struct{ baseTx }

func (t Deposit) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("deposit on %s: booked amount must be positive, got %s", t.Date, t.Amount)
	}
	return nil
}

// Fee is an administration fee charged to the account. Negative amount.
type Fee struct{ baseTx }

func (t Fee) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.Amount.IsNegative() {
		return fmt.Errorf("fee on %s: booked amount must be negative, got %s", t.Date, t.Amount)
	}
	return nil
}

// Interest is an interest credit on the account balance.
type Interest struct{ baseTx }

func (t Interest) Validate() error {
	if err := t.baseTx.validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("interest on %s: booked amount must be positive, got %s", t.Date, t.Amount)
	}
	return nil
}

// NewBuy creates a new Buy transaction. The amount is booked negative.
func NewBuy(day date.Date, portfolio, isin, name string, quantity Quantity, price, amount Money) Buy {
	return Buy{
		secTx:    secTx{baseTx: baseTx{Kind: KindBuy, Date: day, Portfolio: portfolio, Amount: amount.Abs().Neg()}, ISIN: isin, Name: name, Gross: amount.Abs()},
		Quantity: quantity,
		Price:    price,
	}
}

// NewSell creates a new Sell transaction.
func NewSell(day date.Date, portfolio, isin, name string, quantity Quantity, price, amount Money) Sell {
	return Sell{
		secTx:    secTx{baseTx: baseTx{Kind: KindSell, Date: day, Portfolio: portfolio, Amount: amount.Abs()}, ISIN: isin, Name: name, Gross: amount.Abs()},
		Quantity: quantity,
		Price:    price,
	}
}

// NewDeposit creates a new Deposit transaction.
func NewDeposit(day date.Date, portfolio string, amount Money) Deposit {
	return Deposit{baseTx{Kind: KindDeposit, Date: day, Portfolio: portfolio, Amount: amount.Abs()}}
}

// NewFee creates a new Fee transaction.
func NewFee(day date.Date, portfolio string, amount Money) Fee {
	return Fee{baseTx{Kind: KindFee, Date: day, Portfolio: portfolio, Amount: amount.Abs().Neg()}}
}

// NewInterest creates a new Interest transaction.
func NewInterest(day date.Date, portfolio string, amount Money) Interest {
	return Interest{baseTx{Kind: KindInterest, Date: day, Portfolio: portfolio, Amount: amount.Abs()}}
}

// NewDividend creates a new Dividend transaction.
func NewDividend(day date.Date, portfolio, isin, name string, quantity Quantity, perShare, amount Money) Dividend {
	return Dividend{
		secTx:    secTx{baseTx: baseTx{Kind: KindDividend, Date: day, Portfolio: portfolio, Amount: amount.Abs()}, ISIN: isin, Name: name, Gross: amount.Abs()},
		Quantity: quantity,
		PerShare: perShare,
	}
}

// NewTaxRefund creates a new TaxRefund transaction.
func NewTaxRefund(day date.Date, portfolio, isin, name string, quantity Quantity, perShare, amount Money) TaxRefund {
	return TaxRefund{
		secTx:    secTx{baseTx: baseTx{Kind: KindTaxRefund, Date: day, Portfolio: portfolio, Amount: amount.Abs()}, ISIN: isin, Name: name, Gross: amount.Abs()},
		Quantity: quantity,
		PerShare: perShare,
	}
}
