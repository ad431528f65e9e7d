// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/autoledger/ledgerd/lib/storage"

// pk returns the standard "id integer primary key autoincrement"
// field every table in this registry starts with.
func pk() storage.Field {
	return storage.Field{Name: "id", Type: storage.Long, PrimaryKey: true, AutoIncrement: true}
}

func field(name string, t storage.FieldType) storage.Field {
	return storage.Field{Name: name, Type: t}
}

func uniqueField(name string, t storage.FieldType) storage.Field {
	return storage.Field{Name: name, Type: t, Unique: true}
}

// DefaultTables returns the closed set of table descriptors the
// service recognizes, in the order the data model describes them.
func DefaultTables() []storage.Table {
	return []storage.Table{
		{
			Name: "appData",
			Fields: []storage.Field{
				pk(),
				field("data", storage.Text),
				field("source", storage.Text),
				field("time", storage.Long),
				field("match", storage.Integer),
				field("rule", storage.Text),
				field("issue", storage.Integer),
				field("type", storage.Integer),
			},
		},
		{
			Name: "assets",
			Fields: []storage.Field{
				pk(),
				uniqueField("name", storage.Text),
				field("icon", storage.Text),
				field("sort", storage.Integer),
				field("type", storage.Integer),
				field("extras", storage.Text),
			},
		},
		{
			Name: "assetsMap",
			Fields: []storage.Field{
				pk(),
				field("regex", storage.Integer),
				field("name", storage.Text),
				field("mapName", storage.Text),
			},
		},
		{
			Name: "auth",
			Fields: []storage.Field{
				pk(),
				field("app", storage.Text),
				field("token", storage.Text),
			},
		},
		{
			Name: "billInfo",
			Fields: []storage.Field{
				pk(),
				field("type", storage.Integer),
				field("currency", storage.Text),
				field("money", storage.Real),
				field("fee", storage.Real),
				field("time", storage.Long),
				field("shopName", storage.Text),
				field("shopItem", storage.Text),
				field("cateName", storage.Text),
				field("extendData", storage.Text),
				field("bookName", storage.Text),
				field("accountNameFrom", storage.Text),
				field("accountNameTo", storage.Text),
				field("fromApp", storage.Text),
				field("groupId", storage.Long),
				field("channel", storage.Text),
				field("syncFromApp", storage.Integer),
				field("remark", storage.Text),
				field("auto", storage.Integer),
			},
		},
		{
			Name: "bookBill",
			Fields: []storage.Field{
				pk(),
				field("amount", storage.Real),
				field("time", storage.Long),
				field("remark", storage.Text),
				field("billId", storage.Text),
				field("type", storage.Integer),
				field("book", storage.Text),
				field("category", storage.Text),
				field("accountFrom", storage.Text),
				field("accountTo", storage.Text),
			},
		},
		{
			Name: "bookName",
			Fields: []storage.Field{
				pk(),
				field("name", storage.Text),
				field("icon", storage.Text),
			},
		},
		{
			Name: "category",
			Fields: []storage.Field{
				pk(),
				field("name", storage.Text),
				field("icon", storage.Text),
				field("remoteId", storage.Text),
				field("parent", storage.Long),
				field("book", storage.Text),
				field("sort", storage.Integer),
				field("type", storage.Integer),
			},
		},
		{
			Name: "customRule",
			Fields: []storage.Field{
				pk(),
				field("use", storage.Integer),
				field("sort", storage.Integer),
				field("auto_create", storage.Integer),
				field("js", storage.Text),
				field("text", storage.Text),
				field("element", storage.Text),
				field("book", storage.Text),
			},
		},
		{
			Name: "log",
			Fields: []storage.Field{
				pk(),
				field("date", storage.Text),
				field("app", storage.Text),
				field("hook", storage.Integer),
				field("level", storage.Text),
				field("thread", storage.Text),
				field("line", storage.Text),
				field("log", storage.Text),
			},
		},
		{
			Name: "rule",
			Fields: []storage.Field{
				pk(),
				field("app", storage.Text),
				field("type", storage.Integer),
				field("use", storage.Integer),
				field("auto_record", storage.Integer),
				uniqueField("name", storage.Text),
			},
		},
		{
			Name: "settings",
			Fields: []storage.Field{
				pk(),
				field("app", storage.Text),
				field("key", storage.Text),
				field("val", storage.Text),
			},
		},
	}
}
