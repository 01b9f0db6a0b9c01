// Copyright (c) 2026 The XGo Authors (xgo.dev). All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command syslib finds or builds native libraries and prints how to link
// against them.
package main

import "github.com/goplus/syslib/cmd/syslib/internal"

func main() {
	internal.Execute()
}
