//
// Copyright (C) 2026 The contratos-kb authors. All rights reserved.
//
// contratos-kb is licensed under the Apache License Version 2.0.
//
//

// Command contratos-kb runs the public-contract knowledge base pipeline:
// scraping, corpus building, chunk preparation, vectorization, and the
// Wikipedia research agent.
package main

import (
	"github.com/opencontratos/contratos-kb/internal/commands"
)

func main() {
	commands.Execute()
}
