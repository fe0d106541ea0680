package history

import (
	"sync"

	"github.com/CollectivaT-dev/ladinobot/internal/llm"
)

// Store 进程内的按用户对话历史存储
// 每个用户持有独立的锁,同一用户的读写串行,不同用户互不阻塞。
// 历史只存活于进程生命周期,不做持久化与过期清理。
type Store struct {
	window int

	mu    sync.RWMutex
	users map[string]*userHistory
}

type userHistory struct {
	mu    sync.Mutex
	turns []llm.Turn
}

// NewStore 创建历史存储,window 为每个用户保留的最大消息数
func NewStore(window int) *Store {
	if window <= 0 {
		window = 10
	}
	return &Store{
		window: window,
		users:  make(map[string]*userHistory),
	}
}

// Window 返回配置的历史窗口大小
func (s *Store) Window() int {
	return s.window
}

// Get 获取用户的对话历史副本,首次访问返回空历史
func (s *Store) Get(userID string) []llm.Turn {
	u := s.user(userID)

	u.mu.Lock()
	defer u.mu.Unlock()

	turns := make([]llm.Turn, len(u.turns))
	copy(turns, u.turns)
	return turns
}

// Append 追加一条消息,超出窗口时从最旧的开始淘汰
func (s *Store) Append(userID, role, content string) {
	u := s.user(userID)

	u.mu.Lock()
	defer u.mu.Unlock()

	u.turns = append(u.turns, llm.Turn{Role: role, Content: content})
	if overflow := len(u.turns) - s.window; overflow > 0 {
		u.turns = append([]llm.Turn(nil), u.turns[overflow:]...)
	}
}

// user 获取或惰性创建用户历史
func (s *Store) user(userID string) *userHistory {
	s.mu.RLock()
	u, ok := s.users[userID]
	s.mu.RUnlock()
	if ok {
		return u
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok = s.users[userID]; ok {
		return u
	}
	u = &userHistory{}
	s.users[userID] = u
	return u
}
