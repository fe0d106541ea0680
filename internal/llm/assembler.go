package llm

// Assembler 上下文组装器
// 将共享知识块、有界历史窗口与当前用户消息组装为一次调用的消息列表。
// 知识块在启动时构建一次并复用,保证跨调用字节级一致以命中提供商缓存。
type Assembler struct {
	knowledgeBlock string
	window         int
}

// NewAssembler 创建上下文组装器,window 为历史窗口大小 W
func NewAssembler(knowledgeBlock string, window int) *Assembler {
	if window <= 0 {
		window = 10
	}
	return &Assembler{
		knowledgeBlock: knowledgeBlock,
		window:         window,
	}
}

// Assemble 组装一次交互的消息列表
// 顺序为: 缓存标记的知识块(作为首条 user 消息) + 最近 W-1 条历史(保留原角色) + 当前用户消息。
// 知识块为空时不输出知识消息,历史为空时仅有知识块与当前消息。
func (a *Assembler) Assemble(history []Turn, newMessage string) AssembledRequest {
	messages := make([]Message, 0, len(history)+2)

	// 知识块只在此处带缓存标记,系统提示词由调用器单独传递
	if a.knowledgeBlock != "" {
		messages = append(messages, Message{
			Role:    RoleUser,
			Content: a.knowledgeBlock,
			Cached:  true,
		})
	}

	// 最多取最近 W-1 条历史,按时间顺序排列
	if n := len(history); n > 0 {
		start := 0
		if keep := a.window - 1; n > keep {
			start = n - keep
		}
		for _, turn := range history[start:] {
			messages = append(messages, Message{
				Role:    turn.Role,
				Content: turn.Content,
			})
		}
	}

	messages = append(messages, Message{
		Role:    RoleUser,
		Content: newMessage,
	})

	return AssembledRequest{Messages: messages}
}
