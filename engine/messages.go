package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Explanation formats. Each one is also the catalog key of its translations.
const (
	mrMemoryWasteRule = "Memory waste rule:\n" +
		"  total memory-time = sum(map/reduce allocated memory * map/reduce run time)\n" +
		"  consumed memory-time = sum(map/reduce peak memory * map/reduce run time)\n" +
		"  waste percentage = (total memory-time - consumed memory-time) / total memory-time\n" +
		"  memory is wasted when the map waste percentage exceeds %s or the reduce waste percentage exceeds %s"

	sparkMemoryWasteRule = "Memory waste rule:\n" +
		"  total memory-time = sum(executor allocated memory * executor run time)\n" +
		"  consumed memory-time = sum(executor peak memory * executor run time)\n" +
		"  waste percentage = (total memory-time - consumed memory-time) / total memory-time\n" +
		"  memory is wasted when the waste percentage exceeds %s (this run: %s of %s)"

	cpuWasteRule = "CPU waste rule:\n" +
		"  available compute time = executor count * executor cores * job run time\n" +
		"  used compute time = sum(task run time)\n" +
		"  executor waste percentage = (available - used) / available\n" +
		"  CPU is wasted when the executor waste percentage exceeds %s or the driver waste percentage exceeds %s " +
		"(this run: executor %s, driver %s)"
)

var supportedLanguages = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

func init() {
	zh := language.SimplifiedChinese
	for key, msg := range map[string]string{
		mrMemoryWasteRule: "内存浪费计算规则:\n" +
			"  总内存时间 = sum(map/reduce配置内存大小 * map/reduce运行时间)\n" +
			"  执行消耗内存时间 = sum(map/reduce峰值内存 * map/reduce执行时间)\n" +
			"  浪费内存的百分比 = (总内存时间-执行消耗内存时间)/总内存时间\n" +
			"  当map内存浪费占比超过%s或reduce内存浪费占比超过%s, 即判断发生内存浪费",
		sparkMemoryWasteRule: "内存浪费计算规则:\n" +
			"  总内存时间 = sum(executor配置内存大小 * executor运行时间)\n" +
			"  执行消耗内存时间 = sum(executor峰值内存 * executor运行时间)\n" +
			"  浪费内存的百分比 = (总内存时间-执行消耗内存时间)/总内存时间\n" +
			"  当内存浪费占比超过%s, 即判断发生内存浪费 (本次: %s, 共%s)",
		cpuWasteRule: "CPU浪费计算规则:\n" +
			"  可用计算时间 = executor数量 * executor核数 * job运行时间\n" +
			"  实际计算时间 = sum(task运行时间)\n" +
			"  executor浪费占比 = (可用计算时间-实际计算时间)/可用计算时间\n" +
			"  当executor浪费占比超过%s或driver浪费占比超过%s, 即判断发生CPU浪费 " +
			"(本次: executor %s, driver %s)",
	} {
		if err := message.SetString(zh, key, msg); err != nil {
			panic(err)
		}
	}
}

// NewPrinter returns a printer for the best supported match of lang
// ("en", "zh", "zh-CN", ...). Unknown or empty tags fall back to English.
func NewPrinter(lang string) *message.Printer {
	tag := language.English
	if lang != "" {
		if t, err := language.Parse(lang); err == nil {
			_, idx, conf := languageMatcher.Match(t)
			if conf != language.No {
				tag = supportedLanguages[idx]
			}
		}
	}
	return message.NewPrinter(tag)
}

var english = message.NewPrinter(language.English)

func printer(p *message.Printer) *message.Printer {
	if p == nil {
		return english
	}
	return p
}
