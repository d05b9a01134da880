// Package returns computes the value and the rates of return of a portfolio
// of securities from a ledger of dated purchases and sales.
//
// The core functionalities include:
//   - Ledger Management: recording BUY and SELL transactions in a
//     chronological record, with JSONL and CSV encodings.
//   - Valuation: pricing open positions with a caller-owned snapshot of
//     quotes (Quotes), so that every computation is a pure function of its
//     inputs.
//   - Money-weighted returns: XIRR, solved with Newton-Raphson iterations
//     from several seeds, and MIRR with explicit finance and reinvestment
//     rates.
//   - Time-weighted return: sub-periods split at transaction dates and
//     chained, neutral to the timing of contributions.
//   - Holding period: cash-weighted average number of days invested,
//     matching sales to purchases in FIFO order.
//
// Open positions are liquidated virtually at the valuation date, by a single
// Valuation shared by the money-weighted returns and the holding period so
// that they agree on the value of the portfolio.
//
// Analyzer runs all of them at once, for the portfolio and for each symbol.
// This package serves as the foundational logic for the `pret` command-line
// tool.
package returns
