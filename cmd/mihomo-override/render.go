package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muhammadmuzzammil1998/jsonc"

	"github.com/John-Robertt/mihomo-override/internal/classify"
	"github.com/John-Robertt/mihomo-override/internal/compiler"
	"github.com/John-Robertt/mihomo-override/internal/flags"
	"github.com/John-Robertt/mihomo-override/internal/render"
	"github.com/John-Robertt/mihomo-override/internal/sub"
)

// setFlags collects repeated -set key=value pairs.
type setFlags map[string]any

func (s setFlags) String() string {
	parts := make([]string, 0, len(s))
	for k, v := range s {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (s setFlags) Set(v string) error {
	k, val, ok := strings.Cut(v, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	s[k] = strings.TrimSpace(val)
	return nil
}

func runRender(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	in := fs.String("in", "", "节点文件：Clash YAML、JSON/JSONC 或 ss:// 列表（- 表示 stdin）")
	argsFile := fs.String("args", "", "参数文件（JSONC 对象，例如 {\"threshold\": 2}）")
	targetStr := fs.String("target", "clash", "输出格式：clash | json")
	out := fs.String("out", "", "输出文件（默认 stdout）")
	stats := fs.Bool("stats", false, "在 stderr 打印国家统计与能力检测结果")
	sets := setFlags{}
	fs.Var(sets, "set", "覆盖单个参数 key=value（可重复）")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("render: -in is required")
	}

	target, err := render.ParseTarget(*targetStr)
	if err != nil {
		return err
	}

	content, err := readInput(*in)
	if err != nil {
		return err
	}
	endpoints, err := sub.Parse(*in, content)
	if err != nil {
		return err
	}
	endpoints = sub.Normalize(endpoints)

	bag := map[string]any{}
	if *argsFile != "" {
		if bag, err = readArgs(*argsFile); err != nil {
			return err
		}
	}
	f := flags.Resolve(flags.Merge(bag, sets))

	res := compiler.Compile(endpoints, f)
	if *stats {
		printStats(stderr, len(endpoints), f, res)
	}

	body, err := render.Render(target, &res.Document)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = stdout.Write(body)
		return err
	}
	return os.WriteFile(*out, body, 0o644)
}

func readInput(path string) (string, error) {
	var b []byte
	var err error
	if path == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func readArgs(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read args: %w", err)
	}
	if !jsonc.Valid(b) {
		return nil, fmt.Errorf("args %s: not a valid JSONC document", path)
	}
	var out map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(b), &out); err != nil {
		return nil, fmt.Errorf("args %s: %w", path, err)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func printStats(w io.Writer, n int, f flags.Set, res *compiler.Result) {
	fmt.Fprintf(w, "endpoints: %d\n", n)
	fmt.Fprintf(w, "flags: %+v\n", f)
	fmt.Fprintf(w, "capabilities: landing=%t high-speed=%t low-cost=%t ultra-low-cost=%t\n",
		res.Capabilities.Landing, res.Capabilities.HighSpeed, res.Capabilities.LowCost, res.Capabilities.UltraLowCost)
	fmt.Fprintf(w, "countries (raw): %s\n", formatBuckets(res.RawCountries))
	fmt.Fprintf(w, "countries: %s\n", formatBuckets(res.Countries))
	names := make([]string, 0, len(res.CountryGroups))
	for _, g := range res.CountryGroups {
		names = append(names, g.Name())
	}
	fmt.Fprintf(w, "country groups: %s\n", strings.Join(names, ", "))
	fmt.Fprintf(w, "groups: %d, rules: %d\n", len(res.Document.Groups), len(res.Document.Rules))
}

func formatBuckets(bs []classify.Bucket) string {
	if len(bs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(bs))
	for _, b := range bs {
		parts = append(parts, fmt.Sprintf("%s=%d", b.Country, b.Count))
	}
	return strings.Join(parts, ", ")
}
