// Package viac converts the PDF statements issued by VIAC, the Swiss
// pillar 3a provider, into CSV files the Portfolio Performance importer
// understands.
//
// The core functionalities include:
//   - Typed Transactions: Each statement kind (buy, sell, dividend, tax
//     refund, deposit, fee, interest) maps to a typed transaction with the
//     sign conventions the downstream importer expects.
//   - Ledger: Transactions are grouped per portfolio number and securities
//     are indexed per ISIN, with the trading currency fixed by the first
//     trade that references it.
//   - Share Reconciliation: Statements print share counts at a coarser
//     precision than cash amounts. The reconciler derives the count from
//     amount and unit price at 5-digit half-to-even precision, and clamps
//     oversized sales so a liquidation ends at exactly zero.
//   - Currency Conversion: Amounts can be rebooked into a target currency
//     using the euro foreign exchange reference rate history.
//   - Export: One securities file plus an account and a portfolio CSV per
//     portfolio, written deterministically so reruns are idempotent.
//
// Statement text extraction and parsing live in the pdftext and statement
// subpackages; this package holds the domain model the `v2pp` command-line
// tool is built on.
package viac
