package blackjack

// Reward is the scalar payoff of a round or of a single action.
type Reward int

const (
	RewardLoseBet Reward = -2
	RewardLose    Reward = -1
	RewardPush    Reward = 0
	RewardWin     Reward = 1
	RewardWinBet  Reward = 2

	// RewardBustOnHit is the fixed penalty when a hit busts the player. It
	// does not depend on whether a bet was placed.
	RewardBustOnHit Reward = -1
	// RewardIllegalAction is the fixed penalty for an action the round does
	// not allow, regardless of bet state.
	RewardIllegalAction Reward = -2
)

// Outcome is the result of comparing finished hands.
type Outcome uint8

const (
	OutcomePush Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomePush:
		return "push"
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "unknown"
	}
}

// Payout converts an outcome into a reward. A bet doubles wins and losses;
// a push pays nothing either way.
func Payout(o Outcome, bet bool) Reward {
	switch o {
	case OutcomeWin:
		if bet {
			return RewardWinBet
		}
		return RewardWin
	case OutcomeLoss:
		if bet {
			return RewardLoseBet
		}
		return RewardLose
	default:
		return RewardPush
	}
}
