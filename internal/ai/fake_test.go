package ai

import "context"

type fakeGenerator struct {
	out  string
	err  error
	reqs []Request
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (string, error) {
	f.reqs = append(f.reqs, req)
	return f.out, f.err
}
