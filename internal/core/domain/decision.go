package domain

// GuardDecision is the outcome of one protected-route evaluation. It is
// computed fresh on every navigation and never cached: role, permission and
// subscription state can all change between requests.
type GuardDecision int

const (
	// DecisionChecking means one or more of the asynchronous inputs (auth,
	// permissions, token validity) is still in flight. No redirect yet.
	DecisionChecking GuardDecision = iota
	DecisionAllow
	DecisionRedirectLogin
	DecisionRedirectUnauthorized
	DecisionRedirectSubscriptionRequired
	DecisionRedirectSubscriptionExpired
)

// Redirect paths are a stable external contract: links may target them
// directly, so they must not change.
const (
	PathLogin                = "/login"
	PathUnauthorized         = "/unauthorized"
	PathSubscriptionRequired = "/subscription-required"
	PathSubscriptionExpired  = "/subscription-expired"
)

// RedirectPath returns the fixed path for a denial decision, or "" for
// Allow and Checking.
func (d GuardDecision) RedirectPath() string {
	switch d {
	case DecisionRedirectLogin:
		return PathLogin
	case DecisionRedirectUnauthorized:
		return PathUnauthorized
	case DecisionRedirectSubscriptionRequired:
		return PathSubscriptionRequired
	case DecisionRedirectSubscriptionExpired:
		return PathSubscriptionExpired
	default:
		return ""
	}
}

func (d GuardDecision) String() string {
	switch d {
	case DecisionChecking:
		return "checking"
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectUnauthorized:
		return "redirect_unauthorized"
	case DecisionRedirectSubscriptionRequired:
		return "redirect_subscription_required"
	case DecisionRedirectSubscriptionExpired:
		return "redirect_subscription_expired"
	default:
		return "unknown"
	}
}
