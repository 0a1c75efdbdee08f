// Package service 实现便签与图片的业务用例
// Package service implements the note and image business use cases
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/haierkeys/fridge-board-service/pkg/logger"
	"github.com/haierkeys/fridge-board-service/pkg/util"
	"github.com/haierkeys/fridge-board-service/pkg/workerpool"

	"go.uber.org/zap"
)

// ServiceConfig 服务层配置
type ServiceConfig struct {
	// PublicURL 对外访问图片的基础地址，留空时从请求来源推导
	PublicURL string
}

// Broadcaster fans a mutation event out to every room member
// Broadcaster 将变更事件分发给房间内的所有成员
type Broadcaster interface {
	BroadcastEvent(eventType string, data interface{})
}

// Write queue keys, one lane per entity kind
// 写入队列键，每种实体一条通道
const (
	writeKeyNote  = "note"
	writeKeyImage = "image"
)

// entityIDSuffixLength 实体ID随机后缀长度
const entityIDSuffixLength = 9

// NewEntityID builds a sortable unique id like "note-1736412000123-k3f9x2mqz"
// NewEntityID 生成形如 "note-1736412000123-k3f9x2mqz" 的可排序唯一ID
func NewEntityID(kind string) string {
	return fmt.Sprintf("%s-%d-%s", kind, time.Now().UnixMilli(), util.GetRandomBase36String(entityIDSuffixLength))
}

// dispatchEvent hands the broadcast off to the worker pool so the HTTP
// response never waits on fan out
// The pool must run a single worker, peers then see events in mutation order
// dispatchEvent 将广播交给工作池处理，HTTP 响应不等待分发
// 工作池必须是单 worker，对端收到的事件顺序即变更顺序
func dispatchEvent(pool *workerpool.Pool, hub Broadcaster, lg *zap.Logger, eventType string, data interface{}) {
	if hub == nil {
		return
	}
	if pool == nil {
		hub.BroadcastEvent(eventType, data)
		return
	}
	err := pool.SubmitAsync(context.Background(), func(ctx context.Context) error {
		hub.BroadcastEvent(eventType, data)
		return nil
	})
	if err != nil {
		lg.Warn("service dispatchEvent submit err", zap.String(logger.FieldEvent, eventType), zap.Error(err))
		hub.BroadcastEvent(eventType, data)
	}
}
