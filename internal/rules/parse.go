// Package rules is the codec for mihomo rule lines such as
// "RULE-SET,cn_ip,直连,no-resolve" and "AND,((DST-PORT,443),(NETWORK,UDP)),REJECT".
package rules

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/John-Robertt/mihomo-override/internal/model"
)

type RuleError struct {
	Code    string
	Message string
	Hint    string
	Cause   error
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *RuleError) Unwrap() error { return e.Cause }

const optNoResolve = "no-resolve"

// Parse parses one rule line. The target is required except for nested
// conditions, which Parse never sees directly.
func Parse(line string) (model.Rule, error) {
	line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
	if line == "" {
		return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: "rule line is empty"}
	}
	if strings.HasPrefix(line, "#") {
		return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: "rule line is comment"}
	}

	typ, rest, _ := strings.Cut(line, ",")
	typ = strings.ToUpper(strings.TrimSpace(typ))
	switch typ {
	case "":
		return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: "规则类型不能为空"}
	case "MATCH":
		target := strings.TrimSpace(rest)
		if target == "" || strings.Contains(target, ",") {
			return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: "MATCH 规则必须是 MATCH,<TARGET>"}
		}
		return model.Rule{Type: typ, Target: target}, nil
	case "AND", "OR", "NOT":
		return parseLogical(typ, rest)
	}

	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 2:
		if strings.EqualFold(parts[1], optNoResolve) {
			return model.Rule{}, &RuleError{
				Code:    "RULE_PARSE_ERROR",
				Message: "规则缺少 TARGET（不允许仅写 no-resolve）",
				Hint:    "expected: TYPE,PAYLOAD,TARGET[,no-resolve]",
			}
		}
	case 3:
		if !strings.EqualFold(parts[2], optNoResolve) {
			return model.Rule{}, &RuleError{
				Code:    "RULE_PARSE_ERROR",
				Message: "规则的可选项仅支持 no-resolve",
				Hint:    "expected: TYPE,PAYLOAD,TARGET[,no-resolve]",
			}
		}
	default:
		return model.Rule{}, &RuleError{
			Code:    "RULE_PARSE_ERROR",
			Message: "规则字段数量不合法",
			Hint:    "expected: TYPE,PAYLOAD,TARGET[,no-resolve]",
		}
	}
	if parts[1] == "" {
		return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: "规则 TARGET 不能为空"}
	}
	if err := checkCondition(typ, parts[0]); err != nil {
		return model.Rule{}, err
	}
	r := model.Rule{Type: typ, Payload: parts[0], Target: parts[1], NoResolve: len(parts) == 3}
	if r.NoResolve && !resolvable(typ) {
		return model.Rule{}, &RuleError{
			Code:    "RULE_PARSE_ERROR",
			Message: fmt.Sprintf("%s 规则不支持 no-resolve", typ),
		}
	}
	return r, nil
}

// MustParse parses compiled-in rule tables and panics on the first bad line.
func MustParse(lines ...string) []model.Rule {
	out := make([]model.Rule, 0, len(lines))
	for _, l := range lines {
		r, err := Parse(l)
		if err != nil {
			panic(fmt.Sprintf("rules: %q: %v", l, err))
		}
		out = append(out, r)
	}
	return out
}

// Format renders r back into its line form.
func Format(r model.Rule) string {
	if r.Type == "MATCH" {
		return r.Type + "," + r.Target
	}
	s := r.Type + "," + r.Payload + "," + r.Target
	if r.NoResolve {
		s += "," + optNoResolve
	}
	return s
}

// FormatAll renders every rule in order.
func FormatAll(rs []model.Rule) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, Format(r))
	}
	return out
}

func resolvable(typ string) bool {
	switch typ {
	case "RULE-SET", "IP-CIDR", "IP-CIDR6", "GEOIP", "IP-ASN":
		return true
	default:
		return false
	}
}

// checkCondition validates the payload of a non-logical matcher.
func checkCondition(typ, payload string) error {
	if payload == "" {
		return &RuleError{Code: "RULE_PARSE_ERROR", Message: "规则 PAYLOAD 不能为空"}
	}
	switch typ {
	case "RULE-SET", "DOMAIN", "DOMAIN-SUFFIX", "DOMAIN-KEYWORD", "GEOIP", "GEOSITE", "IP-ASN":
		return nil
	case "IP-CIDR", "IP-CIDR6":
		if _, err := netip.ParsePrefix(payload); err != nil {
			return &RuleError{
				Code:    "RULE_PARSE_ERROR",
				Message: fmt.Sprintf("%s 的 CIDR 不合法", typ),
				Hint:    "expected: CIDR, e.g. 1.2.3.4/32",
				Cause:   err,
			}
		}
		return nil
	case "DST-PORT", "SRC-PORT":
		if err := checkPorts(payload); err != nil {
			return &RuleError{
				Code:    "RULE_PARSE_ERROR",
				Message: fmt.Sprintf("%s 的端口不合法", typ),
				Hint:    "expected: 443 or 8000-9000",
				Cause:   err,
			}
		}
		return nil
	case "NETWORK":
		switch strings.ToUpper(payload) {
		case "TCP", "UDP":
			return nil
		}
		return &RuleError{Code: "RULE_PARSE_ERROR", Message: "NETWORK 仅支持 TCP/UDP"}
	default:
		return &RuleError{
			Code:    "UNSUPPORTED_RULE_TYPE",
			Message: fmt.Sprintf("不支持的规则类型：%s", typ),
		}
	}
}

func checkPorts(s string) error {
	for _, part := range strings.Split(s, "/") {
		lo, hi, isRange := strings.Cut(part, "-")
		if err := checkPort(lo); err != nil {
			return err
		}
		if isRange {
			if err := checkPort(hi); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkPort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if n < 0 || n > 65535 {
		return errors.New("port out of range")
	}
	return nil
}

// parseLogical handles "((A),(B)),TARGET" after the logical keyword.
func parseLogical(typ, rest string) (model.Rule, error) {
	rest = strings.TrimSpace(rest)
	i := strings.LastIndex(rest, ",")
	if i < 0 {
		return model.Rule{}, &RuleError{
			Code:    "RULE_PARSE_ERROR",
			Message: fmt.Sprintf("%s 规则缺少 TARGET", typ),
			Hint:    "expected: AND,((TYPE,PAYLOAD),(TYPE,PAYLOAD)),TARGET",
		}
	}
	payload, target := strings.TrimSpace(rest[:i]), strings.TrimSpace(rest[i+1:])
	if target == "" || strings.HasSuffix(target, ")") {
		return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: fmt.Sprintf("%s 规则缺少 TARGET", typ)}
	}
	conds, err := splitConditions(payload)
	if err != nil {
		return model.Rule{}, err
	}
	if typ == "NOT" && len(conds) != 1 {
		return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: "NOT 规则只能包含一个条件"}
	}
	if typ != "NOT" && len(conds) < 2 {
		return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: fmt.Sprintf("%s 规则至少需要两个条件", typ)}
	}
	for _, c := range conds {
		ctyp, cpayload, ok := strings.Cut(c, ",")
		ctyp = strings.ToUpper(strings.TrimSpace(ctyp))
		if !ok {
			return model.Rule{}, &RuleError{Code: "RULE_PARSE_ERROR", Message: "条件必须是 (TYPE,PAYLOAD)"}
		}
		if ctyp == "AND" || ctyp == "OR" || ctyp == "NOT" {
			if _, err := splitConditions(strings.TrimSpace(cpayload)); err != nil {
				return model.Rule{}, err
			}
			continue
		}
		if err := checkCondition(ctyp, strings.TrimSpace(cpayload)); err != nil {
			return model.Rule{}, err
		}
	}
	return model.Rule{Type: typ, Payload: payload, Target: target}, nil
}

// splitConditions splits "((A),(B))" into "A" and "B", honouring nesting.
func splitConditions(payload string) ([]string, error) {
	bad := &RuleError{
		Code:    "RULE_PARSE_ERROR",
		Message: "逻辑规则的括号不匹配",
		Hint:    "expected: ((TYPE,PAYLOAD),(TYPE,PAYLOAD))",
	}
	if len(payload) < 2 || payload[0] != '(' || payload[len(payload)-1] != ')' {
		return nil, bad
	}
	inner := payload[1 : len(payload)-1]

	var out []string
	depth, start := 0, -1
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, bad
			}
			if depth == 0 {
				out = append(out, strings.TrimSpace(inner[start:i]))
			}
		case ',', ' ':
		default:
			if depth == 0 {
				return nil, bad
			}
		}
	}
	if depth != 0 || len(out) == 0 {
		return nil, bad
	}
	return out, nil
}
