// Package healthpdf renders health questionnaire answers into localized PDF
// reports using headless Chrome.
//
// # Quick Start
//
// Create a converter, render a request, and store the bytes:
//
//	conv, err := healthpdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	age, _ := healthpdf.NewAnswer("howOld", "How old are you?", "number", 62)
//	cough, _ := healthpdf.NewAnswer("cough", "Persistent cough?", "boolean", true)
//
//	doc, err := conv.Render(ctx, healthpdf.RenderRequest{
//	    Language: "ar-AE",
//	    Answers:  []healthpdf.AnswerRecord{age, cough},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.pdf", doc.PDF, 0644)
//
// # Rendering Pipeline
//
//  1. The request language is normalized: "ar" and any "ar-*" variant select
//     the right-to-left Arabic template, everything else English.
//  2. The template's tokens are filled from the answers. Boolean answers are
//     grouped into confirmed and denied lists, all text is HTML-escaped and
//     any token nothing supplies becomes "-".
//  3. A fresh browser is launched for the render, the HTML is loaded as A4
//     at twice the pixel density and printed with backgrounds.
//  4. The browser process tree and its profile directory are removed whether
//     or not the render succeeded.
//
// # Configuration
//
// Use functional options to customize the converter:
//
//	conv, err := healthpdf.NewConverter(
//	    healthpdf.WithTimeout(45 * time.Second),
//	    healthpdf.WithBaseURL("https://reports.example.com"),
//	    healthpdf.WithSchema("flat"),
//	    healthpdf.WithMaxConcurrency(2),
//	)
//
// # Browser Requirements
//
// Rendering needs Chrome or Chromium. The executable is looked up in order:
// an explicit path (browser.Hints.ExecutablePath), a serverless bundle under
// /opt/chromium, the operating system's usual install locations, then go-rod's
// own detection. When nothing is found the render fails with
// ErrExecutableNotFound unless WithAllowDownload(true) lets go-rod fetch a
// managed browser (~/.cache/rod/browser/).
package healthpdf
