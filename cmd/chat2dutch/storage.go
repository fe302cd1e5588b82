package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/chat2dutch/internal/config"
)

type StorageDriver string

func (d *StorageDriver) Set(val string) error {
	for _, driver := range allStorageDrivers {
		if val == string(driver) {
			*d = driver
			return nil
		}
	}
	return fmt.Errorf("invalid storage driver: %s", val)
}

func (d StorageDriver) String() string {
	return string(d)
}

func (d *StorageDriver) Type() string {
	return "StorageDriver"
}

const (
	StorageDriverFile  StorageDriver = config.StorageDriverFile
	StorageDriverMySQL StorageDriver = config.StorageDriverMySQL
)

var (
	_                 pflag.Value = (*StorageDriver)(nil)
	allStorageDrivers             = []StorageDriver{StorageDriverFile, StorageDriverMySQL}
)
