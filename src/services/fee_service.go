package services

import (
	"context"
	"strconv"
	"time"

	"tradetracker/src/models"
	"tradetracker/src/repositories"
	"tradetracker/src/utils"
	redis_utils "tradetracker/src/utils/redis"

	"github.com/shopspring/decimal"
)

// MonetaryScale is the fixed scale for fees and other monetary amounts.
const MonetaryScale = 2

type FeeServiceI interface {
	CalculateFee(ctx context.Context, brokerAccountID int, instrumentType string, tradeType models.TradeType, quantity, price decimal.Decimal) (decimal.Decimal, error)
}

type FeeService struct {
	feeRuleRepository repositories.FeeRuleRepository

	// cache is optional; rule lookups fall through to the repository when it
	// is absent or misses.
	cache    *redis_utils.RedisHandler
	cacheTTL time.Duration
}

func NewFeeService(feeRuleRepository repositories.FeeRuleRepository, cache *redis_utils.RedisHandler, cacheTTL time.Duration) *FeeService {
	return &FeeService{
		feeRuleRepository: feeRuleRepository,
		cache:             cache,
		cacheTTL:          cacheTTL,
	}
}

// CalculateFee computes the fee for a trade's notional value (quantity x
// price). A missing rule for the (broker account, instrument type, trade
// type) triple means zero fee; that is the configured default, not an error.
// When a rule exists the percentage fee is floored at the rule's minimum fee.
func (s *FeeService) CalculateFee(ctx context.Context, brokerAccountID int, instrumentType string, tradeType models.TradeType, quantity, price decimal.Decimal) (decimal.Decimal, error) {
	rule, err := s.lookupRule(ctx, brokerAccountID, instrumentType, tradeType)
	if err != nil {
		return decimal.Zero, err
	}
	if rule == nil {
		return decimal.Zero, nil
	}

	notional := quantity.Mul(price)
	fee := notional.Mul(rule.Percentage).Round(MonetaryScale)
	if rule.MinFee.IsPositive() && fee.LessThan(rule.MinFee) {
		return rule.MinFee, nil
	}
	return fee, nil
}

func (s *FeeService) lookupRule(ctx context.Context, brokerAccountID int, instrumentType string, tradeType models.TradeType) (*models.FeeRule, error) {
	logger := utils.LoggerFromContext(ctx)

	key := ""
	if s.cache != nil {
		key, _ = redis_utils.GenerateUUID("fee_rule", strconv.Itoa(brokerAccountID), instrumentType, string(tradeType))
		var cached models.FeeRule
		if err := s.cache.Get(key, &cached); err == nil {
			return &cached, nil
		}
	}

	rule, err := s.feeRuleRepository.GetByKey(ctx, brokerAccountID, instrumentType, tradeType)
	if err != nil {
		return nil, err
	}

	if rule != nil && s.cache != nil {
		// Rule absence is never cached so newly created rules apply promptly.
		if err := s.cache.Set(key, rule, s.cacheTTL); err != nil {
			logger.WithError(err).Warn("failed to cache fee rule")
		}
	}
	return rule, nil
}
