package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"go-campus-harvester/internal/artifact"
	"go-campus-harvester/internal/capture"
	"go-campus-harvester/internal/capture/alibaba"
	"go-campus-harvester/internal/capture/bytedance"
	"go-campus-harvester/internal/capture/tencent"
	"go-campus-harvester/internal/config"
	"go-campus-harvester/internal/normalize"
)

// Source keys, in run order.
const (
	KeyBytedance = "bytedance"
	KeyAlibaba   = "alibaba"
	KeyTencent   = "tencent"
)

var aliases = map[string]string{
	"bytedance":    KeyBytedance,
	"alibaba":      KeyAlibaba,
	"alibaba_star": KeyAlibaba,
	"ali":          KeyAlibaba,
	"tencent":      KeyTencent,
}

// Registry builds every known source from cfg, enabled or not.
func Registry(cfg *config.Config, opts capture.Options) []Source {
	locale := cfg.SubjectLocale
	if locale == language.Und {
		locale = normalize.DefaultSubjectLocale
	}

	return []Source{
		{
			Key:       KeyBytedance,
			RawFile:   artifact.BytedanceRaw,
			CleanFile: artifact.BytedanceClean,
			Harvester: bytedance.NewByteDanceHarvester(cfg.Sources.Bytedance.URL, opts),
			Clean: func(path string) (any, int, error) {
				records, err := normalize.BytedanceFile(path, locale)
				return records, len(records), err
			},
		},
		{
			Key:       KeyAlibaba,
			RawFile:   artifact.AlibabaRaw,
			CleanFile: artifact.AlibabaClean,
			Harvester: alibaba.NewAlibabaHarvester(cfg.Sources.Alibaba.URL, opts),
			Clean: func(path string) (any, int, error) {
				records, err := normalize.AlibabaFile(path)
				return records, len(records), err
			},
		},
		{
			Key:       KeyTencent,
			RawFile:   artifact.TencentRaw,
			CleanFile: artifact.TencentClean,
			Harvester: tencent.NewTencentHarvester(cfg.Sources.Tencent.URL, opts),
			Clean: func(path string) (any, int, error) {
				records, err := normalize.TencentFile(path)
				return records, len(records), err
			},
		},
	}
}

// Enabled keeps the sources switched on in cfg.
func Enabled(sources []Source, cfg *config.Config) []Source {
	on := map[string]bool{
		KeyBytedance: cfg.Sources.Bytedance.Enabled,
		KeyAlibaba:   cfg.Sources.Alibaba.Enabled,
		KeyTencent:   cfg.Sources.Tencent.Enabled,
	}
	var out []Source
	for _, s := range sources {
		if on[s.Key] {
			out = append(out, s)
		}
	}
	return out
}

// Select picks sources by name, keeping registry order. Names given
// explicitly win over the enabled flags; no names means all of sources.
func Select(sources []Source, names []string) ([]Source, error) {
	if len(names) == 0 {
		return sources, nil
	}

	want := map[string]bool{}
	for _, n := range names {
		key, ok := aliases[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("unknown source %q (want bytedance, alibaba or tencent)", n)
		}
		want[key] = true
	}

	var out []Source
	for _, s := range sources {
		if want[s.Key] {
			out = append(out, s)
		}
	}
	return out, nil
}
