package game

import "fmt"

type TransactionLog struct {
	txs   []*Transaction
	index map[string]*Transaction
}

func NewTransactionLog() *TransactionLog {
	return &TransactionLog{index: make(map[string]*Transaction)}
}

func (l *TransactionLog) Add(tx Transaction) {
	t := tx
	l.txs = append(l.txs, &t)
	l.index[t.ID] = &t
}

func (l *TransactionLog) Get(id string) (Transaction, bool) {
	t, ok := l.index[id]
	if !ok {
		return Transaction{}, false
	}
	return *t, true
}

// Complete moves a pending transaction to a final status.
func (l *TransactionLog) Complete(id string, status TransactionStatus) (Transaction, error) {
	t, ok := l.index[id]
	if !ok {
		return Transaction{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if t.Status != TransactionPending {
		return *t, fmt.Errorf("transaction %s is %s: %w", id, t.Status, ErrAlreadyResolved)
	}
	if status != TransactionSuccess && status != TransactionFailed {
		return *t, fmt.Errorf("transaction %s: cannot complete as %s", id, status)
	}
	t.Status = status
	return *t, nil
}

// Filter returns transactions of kind, newest first. An empty kind matches all.
func (l *TransactionLog) Filter(kind TransactionKind) []Transaction {
	out := make([]Transaction, 0)
	for i := len(l.txs) - 1; i >= 0; i-- {
		if kind == "" || l.txs[i].Kind == kind {
			out = append(out, *l.txs[i])
		}
	}
	return out
}
