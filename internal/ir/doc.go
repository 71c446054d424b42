// Package ir provides the value types bound to query placeholders.
//
// This package contains type definitions and literal rendering only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Values form a sealed set (Null, String, Int, Number, Bool, Array)
//   - Decimals are carried as text, never float64
//   - String literals are NFC-normalized at the rendering boundary
package ir
