package idgen

import (
	"github.com/ceyewan/idkit/xerrors"
)

// ========================================
// 配置结构 (Configuration)
// ========================================

// SnowflakeConfig Snowflake 生成器配置
type SnowflakeConfig struct {
	// Epoch 时间戳起点（Unix 毫秒），默认 0
	Epoch int64 `yaml:"epoch" json:"epoch" mapstructure:"epoch"`

	// WorkerID 工作节点 ID [0, 31]
	WorkerID int64 `yaml:"worker_id" json:"worker_id" mapstructure:"worker_id"`

	// DatacenterID 数据中心 ID [0, 31]
	DatacenterID int64 `yaml:"datacenter_id" json:"datacenter_id" mapstructure:"datacenter_id"`
}

func (c *SnowflakeConfig) validate() error {
	if c.WorkerID < 0 || c.WorkerID > maxSnowflakeNode {
		return xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "worker_id %d not in [0, %d]", c.WorkerID, maxSnowflakeNode), "worker_id_out_of_range")
	}
	if c.DatacenterID < 0 || c.DatacenterID > maxSnowflakeNode {
		return xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "datacenter_id %d not in [0, %d]", c.DatacenterID, maxSnowflakeNode), "datacenter_id_out_of_range")
	}
	if c.Epoch < 0 {
		return xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "epoch %d is negative", c.Epoch), "epoch_out_of_range")
	}
	return nil
}

// TSIDConfig TSID 生成器配置
type TSIDConfig struct {
	// Node 节点 ID [0, 1023]
	Node int64 `yaml:"node" json:"node" mapstructure:"node"`
}

func (c *TSIDConfig) validate() error {
	if c.Node < 0 || c.Node > maxTSIDNode {
		return xerrors.WithCode(xerrors.Wrapf(ErrInvalidInput, "node %d not in [0, %d]", c.Node, maxTSIDNode), "node_id_out_of_range")
	}
	return nil
}
