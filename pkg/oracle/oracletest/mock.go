// Package oracletest はテスト用の Oracle 実装を提供します。
package oracletest

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/shouni/go-manga-creator/pkg/oracle"
)

// ErrNoResult はキューが空の状態で呼び出されたときに返されます。
var ErrNoResult = errors.New("oracletest: 登録された応答がありません")

// GenerateResult は Generate の応答1回分です。
type GenerateResult struct {
	Text string
	Err  error
}

// StreamResult は Stream の応答1回分です。Err はすべての Chunks を流した後に返されます。
type StreamResult struct {
	Chunks []oracle.Chunk
	Err    error
}

// MockOracle は登録順に応答を返し、受け取った Request を記録する Oracle です。
type MockOracle struct {
	mu               sync.Mutex
	generateResults  []GenerateResult
	streamResults    []StreamResult
	generateRequests []oracle.Request
	streamRequests   []oracle.Request
}

var _ oracle.Oracle = (*MockOracle)(nil)

// New は空の MockOracle を返します。
func New() *MockOracle {
	return &MockOracle{}
}

// EnqueueGenerate は Generate の応答を末尾に追加します。
func (m *MockOracle) EnqueueGenerate(results ...GenerateResult) *MockOracle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateResults = append(m.generateResults, results...)
	return m
}

// EnqueueText はテキスト応答を追加する省略形です。
func (m *MockOracle) EnqueueText(texts ...string) *MockOracle {
	for _, t := range texts {
		m.EnqueueGenerate(GenerateResult{Text: t})
	}
	return m
}

// EnqueueStream は Stream の応答を末尾に追加します。
func (m *MockOracle) EnqueueStream(results ...StreamResult) *MockOracle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamResults = append(m.streamResults, results...)
	return m
}

// Generate はキューの先頭の応答を返します。
func (m *MockOracle) Generate(ctx context.Context, req oracle.Request) (string, error) {
	m.mu.Lock()
	m.generateRequests = append(m.generateRequests, req)
	if len(m.generateResults) == 0 {
		m.mu.Unlock()
		return "", ErrNoResult
	}
	res := m.generateResults[0]
	m.generateResults = m.generateResults[1:]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return res.Text, res.Err
}

// Stream はキューの先頭の応答をチャンク単位で流します。
func (m *MockOracle) Stream(ctx context.Context, req oracle.Request) iter.Seq2[oracle.Chunk, error] {
	m.mu.Lock()
	m.streamRequests = append(m.streamRequests, req)
	var res StreamResult
	ok := len(m.streamResults) > 0
	if ok {
		res = m.streamResults[0]
		m.streamResults = m.streamResults[1:]
	}
	m.mu.Unlock()

	return func(yield func(oracle.Chunk, error) bool) {
		if !ok {
			yield(oracle.Chunk{}, ErrNoResult)
			return
		}
		for _, c := range res.Chunks {
			if err := ctx.Err(); err != nil {
				yield(oracle.Chunk{}, err)
				return
			}
			if !yield(c, nil) {
				return
			}
		}
		if res.Err != nil {
			yield(oracle.Chunk{}, res.Err)
		}
	}
}

// GenerateRequests は Generate が受け取った Request の一覧を返します。
func (m *MockOracle) GenerateRequests() []oracle.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]oracle.Request(nil), m.generateRequests...)
}

// StreamRequests は Stream が受け取った Request の一覧を返します。
func (m *MockOracle) StreamRequests() []oracle.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]oracle.Request(nil), m.streamRequests...)
}

// TextChunk はテキストだけを持つチャンクを作ります。
func TextChunk(text string) oracle.Chunk {
	return oracle.Chunk{Parts: []oracle.Part{{Text: text}}}
}

// ImageChunk は画像データを持つチャンクを作ります。
func ImageChunk(mimeType string, data []byte) oracle.Chunk {
	return oracle.Chunk{Parts: []oracle.Part{{MIMEType: mimeType, Data: data}}}
}
