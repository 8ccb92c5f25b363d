package validation

import (
	"regexp"

	"github.com/grachmannico95/topup-gateway/internal/config"
	"github.com/grachmannico95/topup-gateway/internal/domain"
)

// AmountRule bounds a charge amount. Zero Min, Max and Step mean unbounded.
// A non-empty Denominations list replaces the other bounds.
type AmountRule struct {
	Min           int64
	Max           int64
	Step          int64
	Denominations []int64
}

func (r AmountRule) Allows(amount int64) bool {
	if amount <= 0 {
		return false
	}

	if len(r.Denominations) > 0 {
		for _, d := range r.Denominations {
			if amount == d {
				return true
			}
		}
		return false
	}

	if r.Min > 0 && amount < r.Min {
		return false
	}
	if r.Max > 0 && amount > r.Max {
		return false
	}
	if r.Step > 0 && amount%r.Step != 0 {
		return false
	}
	return true
}

// Rules are the per-operator admission tables.
type Rules struct {
	Actions    map[domain.Action]struct{}
	Amount     AmountRule
	CellNumber *regexp.Regexp
}

func (r Rules) AllowsAction(a domain.Action) bool {
	_, ok := r.Actions[a]
	return ok
}

func actionSet(actions ...domain.Action) map[domain.Action]struct{} {
	set := make(map[domain.Action]struct{}, len(actions))
	for _, a := range actions {
		set[a] = struct{}{}
	}
	return set
}

var (
	mciCellNumber     = regexp.MustCompile(`^(0|98|\+98|0098)?9(1[0-9]|90)[0-9]{7}$`)
	mtnCellNumber     = regexp.MustCompile(`^(0|98|\+98|0098)?(((93|94)[0-9])|901|902|903)[0-9]{7}$`)
	rightelCellNumber = regexp.MustCompile(`^(0|98|\+98|0098)?92[0-2][0-9]{7}$`)
	anyCellNumber     = regexp.MustCompile(`^(0|98|\+98|0098)?9[0-9]{9}$`)
)

func DefaultRules() map[domain.OperatorID]Rules {
	return map[domain.OperatorID]Rules{
		domain.OperatorMCI: {
			Actions: actionSet(domain.ActionTopUp),
			Amount: AmountRule{
				Denominations: []int64{10000, 20000, 50000, 100000, 200000, 500000, 1000000},
			},
			CellNumber: mciCellNumber,
		},
		domain.OperatorMTN: {
			Actions: actionSet(
				domain.ActionTopUp,
				domain.ActionBulk,
				domain.ActionPayBill,
				domain.ActionWow,
				domain.ActionPostWimax,
				domain.ActionPreWimax,
				domain.ActionGPRS,
			),
			Amount:     AmountRule{Min: 1000},
			CellNumber: mtnCellNumber,
		},
		domain.OperatorJiring: {
			Actions:    actionSet(domain.ActionTopUp, domain.ActionPayBill, domain.ActionWallet),
			Amount:     AmountRule{Min: 1000, Max: 10000000},
			CellNumber: anyCellNumber,
		},
		domain.OperatorRightel: {
			Actions:    actionSet(domain.ActionTopUp, domain.ActionWow),
			Amount:     AmountRule{Min: 10000, Step: 10000},
			CellNumber: rightelCellNumber,
		},
	}
}

// RulesFromConfig starts from DefaultRules and replaces the amount rule of
// every configured operator that declares one.
func RulesFromConfig(operators map[string]config.OperatorConfig) map[domain.OperatorID]Rules {
	rules := DefaultRules()
	for _, oc := range operators {
		id := domain.OperatorID(oc.ID)
		r, ok := rules[id]
		if !ok {
			continue
		}

		amount := AmountRule{
			Min:           oc.Amount.Min,
			Max:           oc.Amount.Max,
			Step:          oc.Amount.Step,
			Denominations: oc.Amount.Denominations,
		}
		if amount.Min != 0 || amount.Max != 0 || amount.Step != 0 || len(amount.Denominations) > 0 {
			r.Amount = amount
			rules[id] = r
		}
	}
	return rules
}
