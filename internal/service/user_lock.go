package service

import "sync"

// userLocks 为每个用户提供一把进程内互斥锁，串行化同一用户的餐单写入。
// 锁按需创建，不会回收。
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock 获取指定用户的锁并返回释放函数。
func (l *userLocks) Lock(userID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
