// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package seaward

// Fuzz is the go-fuzz corpus-fuzzing entry point convention: return 1
// when data decoded successfully (interesting for the corpus), 0
// otherwise.
func Fuzz(data []byte) int {
	_, err := GetResults(data)
	if err != nil {
		return 0
	}
	return 1
}
