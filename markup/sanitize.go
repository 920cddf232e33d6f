package markup

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	titlePolicyOnce sync.Once
	titlePolicy     *bluemonday.Policy
)

// SanitizeTitle strips markup that is unsafe in a hidden-block header while
// keeping inline formatting such as <em> or <code>.
func SanitizeTitle(raw string) string {
	return strings.TrimSpace(titleSanitizer().Sanitize(raw))
}

func titleSanitizer() *bluemonday.Policy {
	titlePolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "kbd", "small", "sub", "sup", "mark", "s", "del")
		policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")
		policy.AllowElements("span")
		titlePolicy = policy
	})
	return titlePolicy
}
