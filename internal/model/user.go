// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// IDは外部IdPが発行するユーザーIDをそのまま使用する。
// 初回サインイン時に1回だけ作成され、以後更新・削除されない。
type User struct {
	ID        string
	Username  string
	Name      string
	CreatedAt time.Time
}

// Identity は外部IdPから取得したサインイン中の訪問者情報を表す。
// 未認証の訪問者には存在しない。Username、FirstName、LastNameは
// IdP側で未設定の場合に空文字列となる。
type Identity struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
}

// DisplayName はUserレコード作成時に使用する表示名を組み立てる。
// 姓がある場合は「名 姓」、ない場合は名のみを返す。
func (i Identity) DisplayName() string {
	if i.LastName != "" {
		return i.FirstName + " " + i.LastName
	}
	return i.FirstName
}

// Session はユーザーのログインセッションを表す。
// ページ表示時のプロビジョニングに必要なIdentityの各フィールドを保持する。
type Session struct {
	ID         string
	IdentityID string
	Username   string
	FirstName  string
	LastName   string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Identity はセッションが保持する外部IdPのユーザー情報を返す。
func (s *Session) Identity() Identity {
	return Identity{
		ID:        s.IdentityID,
		Username:  s.Username,
		FirstName: s.FirstName,
		LastName:  s.LastName,
	}
}
