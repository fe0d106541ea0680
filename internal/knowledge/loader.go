package knowledge

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CollectivaT-dev/ladinobot/internal/logx"
)

// 知识库资源文件扩展名
const resourceExt = ".txt"

// Load 从目录加载知识库资源
// 非递归扫描目录下的 *.txt 文件,键为去掉扩展名的文件名,值为去除首尾空白的文件内容。
// 目录不存在时返回空映射并告警,单个文件读取失败时跳过该文件,均不视为错误。
func Load(dir string) map[string]string {
	resources := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logx.Warn("Knowledge directory not found: %s", dir)
		} else {
			logx.Error("Failed to read knowledge directory %s: %v", dir, err)
		}
		return resources
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), resourceExt) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logx.Error("Failed to load knowledge resource %s: %v", entry.Name(), err)
			continue
		}

		name := strings.TrimSuffix(entry.Name(), resourceExt)
		resources[name] = strings.TrimSpace(string(data))
		logx.Info("Loaded knowledge resource: %s", entry.Name())
	}

	return resources
}

// BuildBlock 将知识库资源拼接为单个文本块
// 每个资源用携带资源名的标签包裹,资源名排序后拼接,
// 保证知识库不变时输出字节级一致,满足提供商缓存的前提条件。
func BuildBlock(resources map[string]string) string {
	if len(resources) == 0 {
		return ""
	}

	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("<knowledge_base>\n")
	for _, name := range names {
		b.WriteString("<" + name + ">\n")
		b.WriteString(resources[name])
		b.WriteString("\n</" + name + ">\n")
	}
	b.WriteString("</knowledge_base>")

	return b.String()
}
