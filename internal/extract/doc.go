// Package extract finds email addresses in screenshots.
//
// Each image is preprocessed, cut into bands, recognized band by band, and the
// recognized text is matched in two stages: a loose email-shaped pattern finds
// candidates, then a strict pattern keeps only candidates whose top-level domain
// is com, org, net, edu or gov. Candidates that fail the strict pattern are
// dropped silently; OCR noise such as "user@example.comx" or a clipped
// "user@example.co" is expected and is not an error.
//
// A failure on one image (unreadable file, OCR error) is logged and counted as
// zero addresses for that image. It never stops the pass.
package extract
