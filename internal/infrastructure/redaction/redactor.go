// Package redaction finds and masks credentials committed in shared lint
// configuration: plugin settings (resolver tokens, registry URLs with
// embedded passwords) and rule option payloads.
package redaction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/kinal-dev/lintcfg/internal/domain/entities"
	"github.com/kinal-dev/lintcfg/internal/domain/services"
)

const redactedMarker = "[REDACTED]"

// Redactor scans and masks sensitive values in a resolved configuration.
// Fields are read-only after construction; the gitleaks detector is guarded
// by a mutex, so a Redactor is safe for concurrent use.
type Redactor struct {
	patterns []*regexp.Regexp
	paths    []string

	// Gitleaks detector for secret detection (222+ patterns)
	// If nil, only regex patterns and paths are used
	gitleaksDetector *detect.Detector
	detectMu         sync.Mutex
}

// Config holds the configuration for the Redactor.
type Config struct {
	// Custom patterns to detect (e.g. "INT-[A-Z0-9]{16}")
	Patterns []string
	// Setting paths always treated as secret (e.g. "import/resolver.token").
	// A bare name matches that key at any depth.
	Paths []string
	// If true, disable gitleaks detector and use only custom patterns
	DisableGitleaks bool
}

// finding is one detected secret inside a string value.
type finding struct {
	ruleID string
	secret string
	// masked replaces secret when scrubbing. Empty means the marker alone.
	masked string
}

// New creates a new Redactor with the given configuration.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		paths:    cfg.Paths,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)+len(defaultPatterns)),
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err != nil {
			return nil, err
		}
		r.gitleaksDetector = detector
	}

	for _, p := range defaultPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile default pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile custom pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

// newGitleaksDetector creates a new gitleaks detector with default configuration.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}

	return detect.NewDetector(cfg), nil
}

// ScanConfig reports one violation per settings path or rule whose values
// contain a credential. Violations are ordered by subject. Messages never
// include the secret itself.
func (r *Redactor) ScanConfig(cfg *entities.ResolvedConfig) []entities.Violation {
	if cfg == nil {
		return nil
	}

	var violations []entities.Violation
	for _, key := range sortedKeys(cfg.Settings) {
		path := "settings." + key
		r.walk(cfg.Settings[key], key, func(valuePath string, found []finding) {
			violations = append(violations, entities.Violation{
				Subject: path,
				Kind:    entities.ViolationHardcodedSecret,
				Message: describe(valuePath, found),
			})
		})
	}

	for _, key := range cfg.RuleKeys() {
		options := cfg.Rules[key].Options
		if len(options) == 0 {
			continue
		}
		r.walk(options, "", func(valuePath string, found []finding) {
			violations = append(violations, entities.Violation{
				Subject: key,
				Kind:    entities.ViolationHardcodedSecret,
				Message: describe(valuePath, found),
			})
		})
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Subject < violations[j].Subject
	})
	return violations
}

// RedactConfig returns a copy of cfg with detected secrets in settings and
// rule options replaced by a marker. cfg is not modified.
func (r *Redactor) RedactConfig(cfg *entities.ResolvedConfig) *entities.ResolvedConfig {
	out := services.DeepCopyResolvedConfig(cfg)
	if out == nil {
		return nil
	}

	for key, value := range out.Settings {
		out.Settings[key] = r.redact(value, key)
	}
	for key, setting := range out.Rules {
		if len(setting.Options) == 0 {
			continue
		}
		redacted, _ := r.redact(setting.Options, "").([]interface{})
		setting.Options = redacted
		out.Rules[key] = setting
	}
	return out
}

// ScrubString replaces every detected secret in input with the marker.
func (r *Redactor) ScrubString(input string) string {
	result := input
	for _, f := range r.detect(input) {
		masked := f.masked
		if masked == "" {
			masked = redactedMarker
		}
		result = strings.ReplaceAll(result, f.secret, masked)
	}
	return result
}

// walk visits every string under data in key order, calling report for
// values that contain secrets. data is not modified.
func (r *Redactor) walk(data interface{}, currentPath string, report func(string, []finding)) {
	switch v := data.(type) {
	case string:
		if r.isPathMatch(currentPath) && v != "" {
			report(currentPath, []finding{{ruleID: "configured-path", secret: v}})
			return
		}
		if found := r.detect(v); len(found) > 0 {
			report(currentPath, found)
		}
	case map[string]interface{}:
		for _, k := range sortedKeys(v) {
			r.walk(v[k], joinPath(currentPath, k), report)
		}
	case []interface{}:
		for i, item := range v {
			r.walk(item, joinPath(currentPath, fmt.Sprintf("[%d]", i)), report)
		}
	}
}

// redact masks secrets under data in place.
func (r *Redactor) redact(data interface{}, currentPath string) interface{} {
	switch v := data.(type) {
	case string:
		if r.isPathMatch(currentPath) && v != "" {
			return redactedMarker
		}
		return r.ScrubString(v)
	case map[string]interface{}:
		for k, val := range v {
			v[k] = r.redact(val, joinPath(currentPath, k))
		}
		return v
	case []interface{}:
		for i, val := range v {
			v[i] = r.redact(val, joinPath(currentPath, fmt.Sprintf("[%d]", i)))
		}
		return v
	default:
		return v
	}
}

// detect runs gitleaks first, then the regex patterns.
func (r *Redactor) detect(input string) []finding {
	if input == "" {
		return nil
	}

	var found []finding
	if r.gitleaksDetector != nil {
		r.detectMu.Lock()
		results := r.gitleaksDetector.Detect(detect.Fragment{Raw: input})
		r.detectMu.Unlock()

		for _, f := range results {
			if f.Secret != "" {
				found = append(found, finding{ruleID: f.RuleID, secret: f.Secret})
			}
		}
	}

	// A pattern with capture groups masks only its last group.
	for _, re := range r.patterns {
		for _, loc := range re.FindAllStringSubmatchIndex(input, -1) {
			f := finding{ruleID: "pattern", secret: input[loc[0]:loc[1]]}
			if n := len(loc); n > 2 && loc[n-2] >= 0 {
				f.masked = input[loc[0]:loc[n-2]] + redactedMarker + input[loc[n-1]:loc[1]]
			}
			found = append(found, f)
		}
	}
	return found
}

// isPathMatch checks if the current path matches any of the configured paths.
//
// Matching rules:
//   - Exact match: path="import/resolver.token" matches only that path
//   - Suffix match: path="token" matches any nested ".token"
func (r *Redactor) isPathMatch(path string) bool {
	if path == "" {
		return false
	}
	for _, p := range r.paths {
		if p == path || strings.HasSuffix(path, "."+p) {
			return true
		}
	}
	return false
}

func describe(valuePath string, found []finding) string {
	ids := make([]string, 0, len(found))
	seen := make(map[string]bool, len(found))
	for _, f := range found {
		if !seen[f.ruleID] {
			seen[f.ruleID] = true
			ids = append(ids, f.ruleID)
		}
	}
	sort.Strings(ids)

	where := "value"
	if valuePath != "" {
		where = valuePath
	}
	return fmt.Sprintf("%s looks like a credential (%s); reference it from the environment instead", where, strings.Join(ids, ", "))
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	if strings.HasPrefix(key, "[") {
		return base + key
	}
	return base + "." + key
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// defaultPatterns contains regexes for common secrets.
// Source: Inspired by Gitleaks / TruffleHog patterns.
var defaultPatterns = []string{
	// AWS Access Key ID
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	// Generic Private Key Header
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	// Github Token
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	// npm access token, common in registry settings
	`npm_[A-Za-z0-9]{36}`,
	// Password embedded in a URL
	`[a-z][a-z0-9+.-]*://[^/\s:@]+:([^/\s:@]+)@`,
}
