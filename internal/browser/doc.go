// Package browser locates a Chrome/Chromium executable across deployment
// environments.
//
// Resolution tries, in strict order, stopping at the first candidate found
// on disk:
//
//  1. An explicit override (Hints.ExecutablePath).
//  2. A serverless bundle directory shipped with the deployment. Its
//     reported executable may be stale, in which case bin/chromium inside
//     the bundle is used. The bundle also contributes shared-library
//     directories and launch arguments.
//  3. Well-known installation paths for the operating system in Hints.GOOS.
//  4. go-rod's own detection: a system browser on PATH, then the rod-managed
//     download directory.
//
// Each step is a Probe; Locator composes them with FirstOf. A miss returns
// false, never an error: the caller decides how to surface it.
package browser
