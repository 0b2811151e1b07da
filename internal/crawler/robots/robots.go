// Package robots implements robots.txt parsing and AI-bot discovery with
// non-standard, cumulative matching semantics: a path is allowed only if
// it is allowed under BOTH the rules for the caller's own user-agent AND
// the wildcard "*" group, rather than the RFC-standard "pick the single
// best-matching group" approach most libraries implement.
package robots

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// group is the set of Disallow prefixes declared under one or more
// User-agent lines before the next blank-line reset. Allow directives are
// not recognized: a path is disallowed iff it starts with some non-empty
// Disallow prefix in the group, full stop — there is no Allow/Disallow
// precedence resolution.
type group struct {
	userAgents []string
	disallow   []string
	crawlDelay time.Duration
}

func (g group) matchesUA(ua string) bool {
	for _, a := range g.userAgents {
		if strings.EqualFold(a, ua) {
			return true
		}
	}
	return false
}

func (g group) isWildcard() bool {
	for _, a := range g.userAgents {
		if a == "*" {
			return true
		}
	}
	return false
}

// Checker holds the parsed rule groups for one domain's robots.txt.
type Checker struct {
	groups []group
	found  bool
}

// Empty returns a Checker representing "no robots.txt found" — everything
// is allowed.
func Empty() *Checker {
	return &Checker{found: false}
}

// FromContent parses robots.txt content directly, primarily for tests.
func FromContent(content string) *Checker {
	return &Checker{groups: parseRobotsTxt(content), found: true}
}

// Fetch retrieves and parses robots.txt for the given scheme+host base URL.
// A missing or non-200 robots.txt yields an empty (allow-all) Checker, not
// an error.
func Fetch(ctx context.Context, client *http.Client, baseURL, userAgent string) (*Checker, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(baseURL, "/")+"/robots.txt", nil)
	if err != nil {
		return Empty(), nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return Empty(), nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Empty(), nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Empty(), nil
	}
	return &Checker{groups: parseRobotsTxt(string(body)), found: true}, nil
}

// Found reports whether a robots.txt was actually retrieved and parsed.
func (c *Checker) Found() bool {
	return c != nil && c.found
}

// parseRobotsTxt implements the line-oriented parser: keys are
// case-insensitive, a blank line resets the "current" user-agent group,
// '#' starts a comment anywhere on the line, and an empty Disallow value
// is a no-op (not "disallow everything").
func parseRobotsTxt(content string) []group {
	var groups []group
	var current *group

	flush := func() {
		if current != nil && len(current.userAgents) > 0 {
			groups = append(groups, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:colon]))
		value := strings.TrimSpace(line[colon+1:])

		switch key {
		case "user-agent":
			if current == nil || len(current.disallow) > 0 {
				flush()
				current = &group{}
			}
			current.userAgents = append(current.userAgents, value)
		case "disallow":
			if current == nil {
				continue
			}
			if value == "" {
				continue
			}
			current.disallow = append(current.disallow, value)
		case "crawl-delay":
			if current == nil {
				continue
			}
			if secs, err := time.ParseDuration(value + "s"); err == nil {
				current.crawlDelay = secs
			}
		}
	}
	flush()
	return groups
}

// IsAllowed reports whether path may be fetched by userAgent. It checks the
// named user-agent's own group (if any) and always additionally checks the
// wildcard "*" group — both must allow the path for it to be considered
// allowed. A group disallows path iff path starts with one of its
// (non-empty) Disallow prefixes; there is no Allow directive to override
// that.
func (c *Checker) IsAllowed(userAgent, path string) bool {
	if c == nil || !c.found {
		return true
	}
	for _, g := range c.groups {
		if g.matchesUA(userAgent) && !allowedByGroup(g, path) {
			return false
		}
	}
	for _, g := range c.groups {
		if g.isWildcard() && !allowedByGroup(g, path) {
			return false
		}
	}
	return true
}

func allowedByGroup(g group, path string) bool {
	for _, prefix := range g.disallow {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return true
}

// CrawlDelay returns the longest Crawl-delay declared across groups
// matching userAgent or the wildcard group, or zero if none is set.
func (c *Checker) CrawlDelay(userAgent string) time.Duration {
	if c == nil || !c.found {
		return 0
	}
	var max time.Duration
	for _, g := range c.groups {
		if g.matchesUA(userAgent) || g.isWildcard() {
			if g.crawlDelay > max {
				max = g.crawlDelay
			}
		}
	}
	return max
}

// AIBotUserAgents lists the well-known AI-crawling bot user-agent tokens
// probed when reporting which AI bots a site has blocked.
var AIBotUserAgents = []string{
	"GPTBot",
	"ChatGPT-User",
	"ClaudeBot",
	"Claude-Web",
	"Google-Extended",
	"GoogleOther",
	"PerplexityBot",
	"CCBot",
	"Bytespider",
}

// BlockedBots returns the subset of AIBotUserAgents disallowed from
// fetching "/" by this robots.txt.
func (c *Checker) BlockedBots() []string {
	var blocked []string
	for _, bot := range AIBotUserAgents {
		if !c.IsAllowed(bot, "/") {
			blocked = append(blocked, bot)
		}
	}
	return blocked
}

// FetchLlmsTxt probes for the presence of an llms.txt file at the site
// root, returning true if one is found (any 200 response).
func FetchLlmsTxt(ctx context.Context, client *http.Client, baseURL, userAgent string) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSuffix(baseURL, "/")+"/llms.txt", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
