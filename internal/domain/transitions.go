package domain

import "fmt"

// ApplyResolution backfills an external resolution onto a suspended
// transaction. Only an unresolved suspension can be resolved, and only to
// resolved-success or resolved-failed.
func (t *Transaction) ApplyResolution(res Resolution) error {
	if !res.STF.IsResolved() {
		return fmt.Errorf("%w: target stf %d", ErrInvalidSTFTransition, res.STF)
	}
	if t.STF == nil {
		return fmt.Errorf("%w: transaction %d was never suspended", ErrInvalidSTFTransition, t.ID)
	}
	if t.STF.IsResolved() {
		return fmt.Errorf("%w: transaction %d already resolved with stf %d", ErrInvalidSTFTransition, t.ID, *t.STF)
	}

	stf := res.STF
	t.STF = &stf
	t.OperatorResponseCode = res.OperatorResponseCode
	t.OperatorResponse = res.OperatorResponse
	t.OperatorTransactionID = res.OperatorTransactionID
	t.OperatorCommandStatus = res.OperatorCommandStatus
	if stf == STFResolvedSuccess {
		t.Status = TransactionStatusSuccess
	} else {
		t.Status = TransactionStatusFailed
	}
	return nil
}
