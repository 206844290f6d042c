package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/beijian128/aoe"
	"github.com/beijian128/aoe/shape"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// === DTO 用于 JSON 序列化 ===

type debugSnapshot struct {
	Tick      int             `json:"tick"`
	Entities  []debugEntity   `json:"ents"`
	Telegraph *debugTelegraph `json:"telegraph,omitempty"`
}

type debugEntity struct {
	ID   int64      `json:"id"`
	Type string     `json:"type"` // "unit" / "prop" / "pickup"
	Pos  [3]float64 `json:"pos"`
	Hit  bool       `json:"hit,omitempty"`
}

type debugTelegraph struct {
	ID      string       `json:"id"`
	ShapeID uint32       `json:"shape_id"`
	Kind    string       `json:"kind"`
	Caster  int64        `json:"caster"`
	Origin  [3]float64   `json:"origin"`
	Yaw     float64      `json:"yaw"`
	Params  [3]float64   `json:"params"`
	Polygon [][2]float64 `json:"poly,omitempty"` // 仅矩形 / 四边形
	Hits    []int64      `json:"hits"`
}

func vec3(p aoe.Position) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}

// makeSnapshot 生成当前时刻的快照，必须在逻辑主循环中调用
func (w *World) makeSnapshot() *debugSnapshot {
	snap := &debugSnapshot{Tick: w.tick}

	hits := aoe.NewSet[aoe.EntityID]()
	if c := w.lastCast; c != nil {
		tg := c.Telegraph
		dt := &debugTelegraph{
			ID:      tg.ID.String(),
			ShapeID: c.ShapeID,
			Kind:    tg.Shape.Kind.String(),
			Origin:  vec3(tg.Position),
			Yaw:     tg.Rotation.X,
			Params:  [3]float64{tg.Shape.Param0, tg.Shape.Param1, tg.Shape.Param2},
			Hits:    make([]int64, 0, len(c.Targets)),
		}
		if tg.Caster != nil {
			dt.Caster = int64(tg.Caster.GetID())
		}
		for _, v := range shape.Vertices(tg.Shape, tg.Position, tg.Rotation) {
			dt.Polygon = append(dt.Polygon, [2]float64{v.X, v.Z})
		}
		for _, e := range c.Targets {
			hits.Add(e.GetID())
			dt.Hits = append(dt.Hits, int64(e.GetID()))
		}
		snap.Telegraph = dt
	}

	all := w.index.Entities()
	snap.Entities = make([]debugEntity, 0, len(all))
	for _, e := range all {
		snap.Entities = append(snap.Entities, debugEntity{
			ID:   int64(e.GetID()),
			Type: e.GetKind().String(),
			Pos:  vec3(e.GetPos()),
			Hit:  hits.Contains(e.GetID()),
		})
	}
	return snap
}

// === 快照存储 ===

// snapshotStore 逻辑线程写入，websocket 连接读取
type snapshotStore struct {
	sync.RWMutex
	data []byte
}

func (s *snapshotStore) Set(snap *debugSnapshot) {
	bytes, err := json.Marshal(snap)
	if err != nil {
		return
	}
	s.Lock()
	defer s.Unlock()
	s.data = bytes
}

func (s *snapshotStore) Get() []byte {
	s.RLock()
	defer s.RUnlock()
	return s.data
}

// === WebSocket ===

const pushInterval = 33 * time.Millisecond // 前端推送频率 (~30 FPS)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func wsHandler(ctx context.Context, store *snapshotStore, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Debug("websocket upgrade")
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(pushInterval)
		defer ticker.Stop()

		var last []byte
		for {
			// 快照没有变化时不重复推送
			if data := store.Get(); data != nil && !sameSlice(data, last) {
				if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}
				last = data
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}
}

// sameSlice Set 每次都分配新切片，比较首地址即可判断是否同一快照
func sameSlice(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}

func serveDebug(ctx context.Context, addr string, store *snapshotStore, log logrus.FieldLogger) {
	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler(ctx, store, log))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("debug view listening on /ws")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("debug view stopped")
	}
}
