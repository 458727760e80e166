package model

// Rule is one entry of the first-match rule list.
type Rule struct {
	Type      string // "RULE-SET" | "AND" | "DST-PORT" | "NETWORK" | "MATCH"
	Payload   string // rule-set name, port, network or "((A),(B))" for logical rules
	Target    string // group name or terminal action
	NoResolve bool
}
