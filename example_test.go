package zoe_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"testing"

	"github.com/zoelang/zoe"
	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/parser"
	"github.com/zoelang/zoe/vm"
)

func ExampleEval() {
	ctx := context.Background()
	result, err := zoe.Eval(ctx, "let [w, h] = ['3', '4']; 'size: ' .. w .. 'x' .. h")
	if err != nil {
		fmt.Println(parser.FriendlyErrorMessage(err, false))
		return
	}
	fmt.Println(result.Inspect())
	// Output: 'size: 3x4'
}

func ExampleEval_errorHandling() {
	_, err := zoe.Eval(context.Background(), "%{name: 'zoe'}.version")
	var e *errz.Error
	if errors.As(err, &e) && e.Kind == errz.KeyError {
		fmt.Println(e.Kind, e.Message)
	}
	// Output: key error 'version'
}

// A compiled unit is immutable, so one compilation can be run by many
// machines at once.
func ExampleCompile() {
	ctx := context.Background()
	raw, err := zoe.Compile("let t = %{a: 1, b: 2}; t.a + t.b")
	if err != nil {
		log.Fatal("compile error:", err)
	}

	results := make([]string, 4)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			result, err := zoe.Run(ctx, raw)
			if err != nil {
				results[idx] = fmt.Sprintf("error: %v", err)
				return
			}
			results[idx] = result.Inspect()
		}(i)
	}
	wg.Wait()
	fmt.Println(results)
	// Output: [3 3 3 3]
}

func BenchmarkNestedTables(b *testing.B) {
	unit, err := zoe.CompileUnit(`
		let mut total = 0
		let t = %{a: %{b: [1, 2, 3]}, c: 'x' .. 'y'}
		total = total + t.a.b[0] + t.a.b[-1] + #t.c
		total = total * #(t.a.b .. t.a.b)
		total
	`)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := vm.Run(ctx, unit)
		if err != nil {
			b.Fatal(err)
		}
		if result.Inspect() != "36" {
			b.Fatalf("unexpected result: %v", result)
		}
	}
}
