package extract

import "strings"

// The prompt wording below is configuration, not contract: only the JSON
// schema the model is told to emit is relied on by the decoder.

const categoryTaxonomy = `## 分类参考：
【支出类】
- 餐饮-早餐/午餐/晚餐/外卖/饮料/零食
- 交通-公交/地铁/打车/加油/停车
- 购物-服饰/日用品/电子产品/化妆品
- 娱乐-电影/游戏/KTV/运动
- 居住-房租/水电/燃气/物业
- 医疗-药品/挂号/体检
- 教育-书籍/课程/培训
- 人情-红包/礼物/请客
- 其他支出

【收入类】
- 职业收入-工资/奖金/兼职
- 其他收入-红包/退款/利息
`

const priorityRules = `## 优先级判断规则：
- high (高): 包含"紧急"、"重要"、"马上"、"立刻"、"赶紧"、"今天必须"等词
- medium (中): 普通任务，没有特别紧急或不重要的暗示
- low (低): 包含"有空"、"以后"、"不急"、"闲了"、"想起来"等词
`

func buildBillPrompt(today, text string) string {
	var b strings.Builder
	b.WriteString("你是一个智能记账助手。今天是 " + today + "。\n\n")
	b.WriteString("请从用户输入中提取记账信息：\"" + text + "\"\n\n")
	b.WriteString(categoryTaxonomy)
	b.WriteString("\n## 日期解析规则：\n")
	b.WriteString("- \"昨天\" → 昨日日期\n")
	b.WriteString("- \"前天\" → 前日日期\n")
	b.WriteString("- \"上周X\" → 计算对应日期\n")
	b.WriteString("- \"X月X日\" → 当年对应日期\n")
	b.WriteString("- 未提及日期 → 使用今天 " + today + "\n\n")
	b.WriteString("## 返回格式（纯JSON，不要markdown）：\n")
	b.WriteString("{\n")
	b.WriteString("  \"type\": \"income\" 或 \"expense\",\n")
	b.WriteString("  \"amount\": 数字金额,\n")
	b.WriteString("  \"category\": \"主类-子类\",\n")
	b.WriteString("  \"note\": \"简短备注\",\n")
	b.WriteString("  \"date\": \"yyyy-MM-dd格式日期\"\n")
	b.WriteString("}\n\n")
	b.WriteString("注意：只返回JSON对象，不要包含```或任何解释文字。")
	return b.String()
}

func buildTaskPrompt(today, text string) string {
	var b strings.Builder
	b.WriteString("你是一个任务管理助手。今天是 " + today + "。\n\n")
	b.WriteString("请从用户输入中提取任务信息：\"" + text + "\"\n\n")
	b.WriteString(priorityRules)
	b.WriteString("\n## 截止日期解析规则：\n")
	b.WriteString("- \"今天\" → " + today + "\n")
	b.WriteString("- \"明天\" → 明日日期\n")
	b.WriteString("- \"后天\" → 后日日期\n")
	b.WriteString("- \"下周X\" → 计算对应日期\n")
	b.WriteString("- \"X月X日\" → 当年对应日期\n")
	b.WriteString("- 未提及日期 → 留空\n\n")
	b.WriteString("## 返回格式（纯JSON，不要markdown）：\n")
	b.WriteString("{\n")
	b.WriteString("  \"title\": \"任务标题\",\n")
	b.WriteString("  \"description\": \"任务描述或留空\",\n")
	b.WriteString("  \"priority\": \"high/medium/low\",\n")
	b.WriteString("  \"due_date\": \"yyyy-MM-dd格式或留空\",\n")
	b.WriteString("  \"tags\": \"标签用逗号分隔或留空\"\n")
	b.WriteString("}\n\n")
	b.WriteString("注意：只返回JSON对象，不要包含```或任何解释文字。")
	return b.String()
}
