package importer

import (
	"errors"
	"log"
	"time"
)

// syncRunner 由调度器驱动的同步任务
type syncRunner interface {
	Run() (int, error)
}

// Scheduler 固定间隔驱动同步任务
// 进程启动时先跑一次，之后按间隔触发；重叠触发由任务自身的互斥锁跳过
type Scheduler struct {
	job      syncRunner
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler 创建调度器
func NewScheduler(job syncRunner, interval time.Duration) *Scheduler {
	return &Scheduler{
		job:      job,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start 启动调度循环
func (s *Scheduler) Start() {
	go func() {
		defer close(s.done)

		s.runOnce()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop 停止调度并等待循环退出
// 已经开始的一次同步不会被中断，正常完成或失败后退出
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

// runOnce 执行一次同步并记录结果，失败不终止调度
func (s *Scheduler) runOnce() {
	n, err := s.job.Run()
	switch {
	case errors.Is(err, ErrSyncInProgress):
		log.Printf("同步跳过: 上一次同步尚未结束")
	case err != nil:
		log.Printf("同步失败: %v", err)
	default:
		log.Printf("同步完成: 导入 %d 行", n)
	}
}
