// Package lang defines dialect profiles for expression scanning.
//
// A Profile captures the handful of surface-syntax facts the scanner
// depends on: delimiter pairs, the line-comment leader, string
// delimiters, and the escape character. Profiles are plain values;
// copy them freely.
package lang
