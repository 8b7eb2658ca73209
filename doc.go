// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package seaward decodes the GAR container and SSS record stream
// produced by Seaward portable-appliance test (PAT) instruments, as
// emitted by the Apollo/PrimeTest download tool. It exposes both the
// low-level framing (ParseGAR, ParseSSS) and a File/Options lifecycle
// for reading a .gar export straight off disk into assembled test
// results.
package seaward
