// Package sheet 读取外部试算表的 CSV 导出。
//
// 导出格式比 RFC 4180 宽松：字段内的逗号用双引号包起来，但不支持
// 引号内再转义引号。这里按逐字符的引号开关扫描来解析，与数据源
// 实际产出保持一致，所以不用 encoding/csv（它会拒绝畸形行）。
package sheet

import "strings"

// ParseLine 解析一行 CSV，处理引号内的逗号
// 引号字符本身不进入字段值；残缺行原样返回，由调用方容错。
func ParseLine(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			result = append(result, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	result = append(result, current.String())
	return result
}

// ParseTable 把整段 CSV 文本拆成行记录
// 空行跳过；标题行不在这里处理，由各表的构建函数丢弃。
func ParseTable(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, ParseLine(line))
	}
	return rows
}

// field 按位置取字段，短行按空字符串容错
func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
