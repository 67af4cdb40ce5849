package ws

import (
	"errors"

	"github.com/hemant101104/MovieStream/internal/metrics"
	"github.com/hemant101104/MovieStream/internal/models"
)

var (
	errNotMember = errors.New("not a room member")
	errNotHost   = errors.New("only the host controls playback")
	errStale     = errors.New("stale playback action")
)

// ApplyAction 处理宿主发出的播放意图并向其余成员下发权威状态。
// 非宿主的动作一律拒绝；时间戳不晚于已存状态的动作静默丢弃，
// 防止乱序到达的旧动作覆盖新状态。持久化成功后才广播。
func (rh *RoomHub) ApplyAction(c *Client, action string, currentTime float64, url string) error {
	if currentTime < 0 {
		return errors.New("invalid position")
	}

	rh.mu.Lock()
	defer rh.mu.Unlock()

	now := rh.hub.now()
	var state models.PlaybackState
	_, err := rh.hub.reg.Update(rh.code, func(room *models.Room) error {
		if room.HostID != c.userID {
			return errNotHost
		}
		if now <= room.VideoState.UpdatedAt {
			return errStale
		}
		next := room.VideoState
		switch action {
		case ActionPlay:
			next.Playing = true
			next.CurrentTime = currentTime
		case ActionPause:
			next.Playing = false
			next.CurrentTime = currentTime
		case ActionSeek:
			next.CurrentTime = currentTime
		case ActionSetVideo:
			// 换源时位置与播放状态一并复位，客户端不能保留旧源的播放状态
			next.Playing = false
			next.CurrentTime = 0
			next.URL = url
		default:
			return errors.New("unknown action")
		}
		next.UpdatedAt = now
		room.VideoState = next
		state = next
		return nil
	})
	if errors.Is(err, errStale) {
		// 乱序旧动作，丢弃即可，不算错误
		return nil
	}
	if err != nil {
		return err
	}

	metrics.PlaybackActionsTotal.WithLabelValues(action).Inc()
	rh.fanout(marshal(playbackSyncEvent{
		Type:        EvPlaybackSync,
		Action:      action,
		CurrentTime: state.CurrentTime,
		URL:         state.URL,
		Timestamp:   state.UpdatedAt,
	}), c)
	return nil
}
