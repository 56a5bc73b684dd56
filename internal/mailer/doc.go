// Package mailer composes the outreach message and delivers it to each
// recipient over an authenticated, STARTTLS-upgraded SMTP submission session.
//
// Delivery is deliberately plain: one new connection per message, a fixed pause
// between messages, no retries. A failure for one recipient is logged and the
// batch moves on. Outcomes are reported to the caller but not written back to
// the address list.
package mailer
