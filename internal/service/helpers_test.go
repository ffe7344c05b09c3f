package service

import "github.com/afiliados-next/internal/queue"

func queuePayload(curp string) queue.AffiliateRegisteredPayload {
	return queue.AffiliateRegisteredPayload{CURP: curp, Section: "12", Promoter: "JUAN"}
}
