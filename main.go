package main

import (
	"context"

	"github.com/bjulian5/prdash/cmd"
)

func main() {
	ctx := context.Background()
	cmd.Execute(ctx)
}
