package generator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Call は複合生成を構成する独立した 1 呼び出しなのだ。
type Call struct {
	Name string
	Do   func(ctx context.Context) (any, error)
}

// CompositeResult はメンバー名ごとの生成結果なのだ。すべてのメンバーが成功した場合にのみ返されるのだ。
type CompositeResult map[string]any

// CompositeError は複合生成の失敗なのだ。
// 宣言順で最初に失敗したメンバーのエラーを代表として公開し、診断用に全メンバーのエラーを保持するのだ。
type CompositeError struct {
	Member string
	Err    error
	All    map[string]error
}

func (e *CompositeError) Error() string {
	return e.Err.Error()
}

func (e *CompositeError) Unwrap() error {
	return e.Err
}

// Join はすべての Call を並行に実行し、全員の完了を待ってから 1 つの結果にまとめるのだ。
// いずれかが失敗した場合は部分的な結果を返さず、CompositeError のみを返すのだ。
func Join(ctx context.Context, calls ...Call) (CompositeResult, error) {
	seen := make(map[string]struct{}, len(calls))
	for _, c := range calls {
		if c.Do == nil {
			return nil, NewFailure(FailureUnknown, fmt.Sprintf("composite member %q has no call", c.Name))
		}
		if _, dup := seen[c.Name]; dup {
			return nil, NewFailure(FailureUnknown, fmt.Sprintf("duplicate composite member %q", c.Name))
		}
		seen[c.Name] = struct{}{}
	}

	values := make([]any, len(calls))
	errs := make([]error, len(calls))

	// 兄弟の呼び出しは途中でキャンセルせず、全員の完了を待つのだ
	var eg errgroup.Group
	for i, c := range calls {
		eg.Go(func() error {
			values[i], errs[i] = c.Do(ctx)
			return errs[i]
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, compositeError(calls, errs)
	}

	result := make(CompositeResult, len(calls))
	for i, c := range calls {
		result[c.Name] = values[i]
	}
	return result, nil
}

// compositeError は宣言順で最初に失敗したメンバーを代表にするのだ。
// Wait が返すのは完了順で最初のエラーなので、ここで選び直すのだ。
func compositeError(calls []Call, errs []error) *CompositeError {
	var ce *CompositeError
	for i, err := range errs {
		if err == nil {
			continue
		}
		if ce == nil {
			ce = &CompositeError{Member: calls[i].Name, Err: err, All: make(map[string]error)}
		}
		ce.All[calls[i].Name] = err
	}
	return ce
}

// Value はメンバーの結果を型付きで取り出すのだ。
func Value[T any](r CompositeResult, name string) (T, error) {
	var zero T
	raw, ok := r[name]
	if !ok {
		return zero, NewFailure(FailureMalformedResponse, fmt.Sprintf("composite member %q is missing", name))
	}
	v, ok := raw.(T)
	if !ok {
		return zero, NewFailure(FailureMalformedResponse, fmt.Sprintf("composite member %q has unexpected type %T", name, raw))
	}
	return v, nil
}
