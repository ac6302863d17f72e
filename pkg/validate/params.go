package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
)

// Parameter structs checked with struct tags after parsing.
type (
	pushParams struct {
		Values []float64 `json:"values" validate:"min=1"`
	}
	popParams struct {
		List  []float64 `json:"list" validate:"min=1"`
		Count int       `json:"count" validate:"gt=0"`
	}
	insertParams struct {
		Index int `json:"index" validate:"gte=0"`
	}
	listParams struct {
		List []float64 `json:"list" validate:"min=1"`
	}
	fibonacciParams struct {
		N int `json:"n" validate:"gte=0,lte=40"`
	}
	coinParams struct {
		Coins  []float64 `json:"coins" validate:"min=1,dive,gt=0"`
		Amount int       `json:"amount" validate:"gte=0"`
	}
)

// checkParams validates a parameter struct and converts the first failure
// into an INVALID_PARAMETER error.
func checkParams(p any) error {
	if err := validate.Struct(p); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidParameter, err, "invalid parameters")
	}

	fe := verrs[0]
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}

	var msg string
	switch fe.Tag() {
	case "min":
		msg = name + " needs at least " + fe.Param() + " value(s)"
	case "gt":
		if strings.HasPrefix(fe.Field(), name+"[") {
			msg = name + " must all be positive numbers"
		} else {
			msg = name + " must be a positive number"
		}
	case "gte":
		msg = name + " must be at least " + fe.Param()
	case "lte":
		msg = name + " must be at most " + fe.Param()
	default:
		msg = name + " is invalid"
	}
	return errors.New(errors.ErrCodeInvalidParameter, "%s", msg).WithField(name)
}

// =============================================================================
// Lists: stacks, queues, linked lists
// =============================================================================

func validateList(a algo.Algorithm, in Input) (instance.Instance, error) {
	list, err := parseNumbers("list", in.List)
	if err != nil {
		return instance.Instance{}, err
	}
	inst := instance.Instance{List: list}

	switch a.Name {
	case "stack-push":
		values, err := parseNumbers("push value", in.Values)
		if err != nil {
			return instance.Instance{}, err
		}
		if err := checkParams(pushParams{Values: values}); err != nil {
			return instance.Instance{}, err
		}
		inst.Values = values

	case "stack-pop", "queue-dequeue":
		count, err := requiredInt("count", in.Count)
		if err != nil {
			return instance.Instance{}, err
		}
		if err := checkParams(popParams{List: list, Count: count}); err != nil {
			return instance.Instance{}, err
		}
		inst.Count = count

	case "singly-insert", "doubly-insert":
		if strings.TrimSpace(in.Value) == "" {
			return instance.Instance{}, errors.New(errors.ErrCodeInvalidParameter, "value is required").WithField("value")
		}
		v, err := parseNumber("value", in.Value)
		if err != nil {
			return instance.Instance{}, err
		}
		idx, err := requiredInt("index", in.Index)
		if err != nil {
			return instance.Instance{}, err
		}
		if err := checkParams(insertParams{Index: idx}); err != nil {
			return instance.Instance{}, err
		}
		if idx > len(list) {
			return instance.Instance{}, errors.New(errors.ErrCodeInvalidParameter, "index must be between 0 and %d", len(list)).WithField("index")
		}
		inst.Value, inst.Index = &v, &idx

	case "doubly-delete":
		if err := checkParams(listParams{List: list}); err != nil {
			return instance.Instance{}, err
		}
		idx, err := requiredInt("index", in.Index)
		if err != nil {
			return instance.Instance{}, err
		}
		if idx < 0 || idx >= len(list) {
			return instance.Instance{}, errors.New(errors.ErrCodeInvalidParameter, "index must be between 0 and %d", len(list)-1).WithField("index")
		}
		inst.Index = &idx

	default:
		if err := checkParams(listParams{List: list}); err != nil {
			return instance.Instance{}, err
		}
	}
	return inst, nil
}

func requiredInt(name, text string) (int, error) {
	if strings.TrimSpace(text) == "" {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "%s is required", name).WithField(name)
	}
	return parseInt(name, text)
}

// =============================================================================
// Dynamic programming
// =============================================================================

func validateDP(a algo.Algorithm, in Input) (instance.Instance, error) {
	switch a.Name {
	case "fibonacci":
		n, err := requiredInt("n", in.N)
		if err != nil {
			return instance.Instance{}, err
		}
		if err := checkParams(fibonacciParams{N: n}); err != nil {
			return instance.Instance{}, err
		}
		return instance.Instance{N: n}, nil

	case "coin-change":
		coins, err := nonEmptyNumbers("coins", in.Coins)
		if err != nil {
			return instance.Instance{}, err
		}
		amount, err := requiredInt("amount", in.Amount)
		if err != nil {
			return instance.Instance{}, err
		}
		if err := checkParams(coinParams{Coins: coins, Amount: amount}); err != nil {
			return instance.Instance{}, err
		}
		return instance.Instance{Coins: coins, Amount: amount}, nil
	}
	return instance.Instance{}, errors.New(errors.ErrCodeUnsupported, "no parameters defined for %q", a.Name)
}
