package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spendchat/internal/ai"
	"spendchat/internal/events"
	"spendchat/internal/otp"
	"spendchat/internal/vonage"
)

// fakeVerifier issues sequential request ids and accepts a single code.
type fakeVerifier struct {
	validCode   string
	startStatus string
	startErr    error
	checkErr    error
	started     []string
	checked     []string
}

func (f *fakeVerifier) StartVerification(_ context.Context, number string) (*vonage.VerifyResult, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.started = append(f.started, number)
	status := f.startStatus
	if status == "" {
		status = vonage.StatusOK
	}
	return &vonage.VerifyResult{RequestID: fmt.Sprintf("req-%d", len(f.started)), Status: status}, nil
}

func (f *fakeVerifier) CheckVerification(_ context.Context, requestID, code string) (*vonage.VerifyResult, error) {
	if f.checkErr != nil {
		return nil, f.checkErr
	}
	f.checked = append(f.checked, requestID)
	if code == f.validCode {
		return &vonage.VerifyResult{RequestID: requestID, Status: vonage.StatusOK}, nil
	}
	return &vonage.VerifyResult{RequestID: requestID, Status: "16", ErrorText: "wrong code"}, nil
}

// memChallengeStore keeps one challenge per phone, like the redis store.
type memChallengeStore struct {
	mu    sync.Mutex
	items map[string]*otp.Challenge
}

func newMemChallengeStore() *memChallengeStore {
	return &memChallengeStore{items: map[string]*otp.Challenge{}}
}

func (m *memChallengeStore) Save(_ context.Context, phone, requestID string) (*otp.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := &otp.Challenge{PhoneNumber: phone, RequestID: requestID, CreatedAt: time.Now()}
	m.items[phone] = c
	return c, nil
}

func (m *memChallengeStore) Get(_ context.Context, phone string) (*otp.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[phone]
	if !ok {
		return nil, otp.ErrNoChallenge
	}
	return c, nil
}

func (m *memChallengeStore) Delete(_ context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, phone)
	return nil
}

type fakeClassifier struct {
	result ai.Classification
	calls  int
}

func (f *fakeClassifier) Classify(context.Context, string, time.Time) ai.Classification {
	f.calls++
	return f.result
}

type fakeAnalyst struct {
	answer   string
	err      error
	history  string
	question string
}

func (f *fakeAnalyst) Answer(_ context.Context, history, question string) (string, error) {
	f.history, f.question = history, question
	return f.answer, f.err
}

func (f *fakeAnalyst) Insight(_ context.Context, expenses string) (string, error) {
	return f.answer, f.err
}

type recordingPublisher struct {
	events []events.ExpenseLogged
	err    error
}

func (p *recordingPublisher) PublishExpenseLogged(_ context.Context, e events.ExpenseLogged) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
